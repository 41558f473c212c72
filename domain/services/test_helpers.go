package services

import (
	"time"

	"hoopsleague/domain/entities"
)

// Helper to create a test account
func createTestAccount(id int64, role entities.UserRole, balance int64) *entities.Account {
	return &entities.Account{
		ID:        id,
		Username:  "user",
		Role:      role,
		Balance:   balance,
		CreatedAt: time.Now(),
	}
}

// Helper to create a draft tournament with sensible defaults
func createTestTournament(id, sponsorID int64, opts ...func(*entities.Tournament)) *entities.Tournament {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tournament := &entities.Tournament{
		ID:                   id,
		Name:                 "Spring Cup",
		SponsorID:            sponsorID,
		Status:               entities.TournamentStatusDraft,
		MaxTeams:             8,
		TotalPrizeMoney:      1_000_000,
		RegistrationDeadline: start.Add(-7 * 24 * time.Hour),
		StartDate:            start,
		EndDate:              start.Add(30 * 24 * time.Hour),
	}
	for _, opt := range opts {
		opt(tournament)
	}
	return tournament
}

// Helper to create a standing
func createTestStanding(id, tournamentID, teamID int64, group string) *entities.Standing {
	return &entities.Standing{
		ID:           id,
		TournamentID: tournamentID,
		TeamID:       teamID,
		GroupName:    group,
	}
}

// Helper to create a match with an optional final score
func createTestMatch(id, tournamentID int64, stage entities.MatchStage, round int, home, away *int64, score ...int) *entities.Match {
	match := &entities.Match{
		ID:           id,
		TournamentID: tournamentID,
		Stage:        stage,
		Round:        round,
		HomeTeamID:   home,
		AwayTeamID:   away,
		Status:       entities.MatchStatusScheduled,
	}
	if len(score) == 2 {
		homeScore, awayScore := score[0], score[1]
		match.HomeScore = &homeScore
		match.AwayScore = &awayScore
		match.Status = entities.MatchStatusCompleted
	}
	return match
}

// Helper to mark a completed match as counted in the standings
func countedMatch(match *entities.Match) *entities.Match {
	at := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	match.StandingsAppliedAt = &at
	return match
}

// Helper to create an athlete
func createTestAthlete(id, teamID int64, position entities.Position, jersey int) *entities.Athlete {
	return &entities.Athlete{
		ID:           id,
		TeamID:       teamID,
		Name:         "player",
		Position:     position,
		JerseyNumber: jersey,
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}
