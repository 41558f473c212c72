package testutil

import (
	"time"

	"hoopsleague/domain/entities"
)

// CreateTestTournament creates a draft tournament with sensible defaults.
// Dates are relative to now so the tournament is still open for registration.
func CreateTestTournament(sponsorID int64, name string) *entities.Tournament {
	now := time.Now().UTC().Truncate(time.Second)
	return &entities.Tournament{
		Name:                 name,
		Description:          "test tournament",
		Venue:                "Main Arena",
		SponsorID:            sponsorID,
		Status:               entities.TournamentStatusDraft,
		MaxTeams:             4,
		TotalPrizeMoney:      10000,
		RegistrationDeadline: now.Add(24 * time.Hour),
		StartDate:            now.Add(48 * time.Hour),
		EndDate:              now.Add(96 * time.Hour),
	}
}

// CreateTestTournamentWithStatus creates a tournament already in the given status
func CreateTestTournamentWithStatus(sponsorID int64, name string, status entities.TournamentStatus) *entities.Tournament {
	tournament := CreateTestTournament(sponsorID, name)
	tournament.Status = status
	return tournament
}

// CreateTestTeam creates a pending team
func CreateTestTeam(coachID int64, name string) *entities.Team {
	return &entities.Team{
		Name:    name,
		CoachID: coachID,
		Status:  entities.ApprovalStatusPending,
	}
}

// CreateTestRegistration creates a pending registration in a group
func CreateTestRegistration(tournamentID, teamID int64, group string) *entities.TeamRegistration {
	return &entities.TeamRegistration{
		TournamentID: tournamentID,
		TeamID:       teamID,
		GroupName:    group,
		Status:       entities.ApprovalStatusPending,
	}
}

// CreateTestGroupMatch creates a scheduled group stage match between two teams
func CreateTestGroupMatch(tournamentID, homeTeamID, awayTeamID int64) *entities.Match {
	return &entities.Match{
		TournamentID: tournamentID,
		Stage:        entities.MatchStageGroup,
		Round:        1,
		HomeTeamID:   &homeTeamID,
		AwayTeamID:   &awayTeamID,
		Status:       entities.MatchStatusScheduled,
	}
}

// CreateTestPlaceholderMatch creates a knockout match with no teams assigned yet
func CreateTestPlaceholderMatch(tournamentID int64, stage entities.MatchStage, round int) *entities.Match {
	return &entities.Match{
		TournamentID: tournamentID,
		Stage:        stage,
		Round:        round,
		Status:       entities.MatchStatusScheduled,
	}
}

// CreateTestAthlete creates an athlete on a team
func CreateTestAthlete(teamID int64, name string, position entities.Position, jersey int) *entities.Athlete {
	return &entities.Athlete{
		TeamID:       teamID,
		Name:         name,
		Position:     position,
		JerseyNumber: jersey,
	}
}

// CreateTestTransaction creates a ledger entry with consistent before/after amounts
func CreateTestTransaction(accountID, before, change int64, transactionType entities.TransactionType) *entities.FinancialTransaction {
	return &entities.FinancialTransaction{
		AccountID:       accountID,
		BalanceBefore:   before,
		BalanceAfter:    before + change,
		ChangeAmount:    change,
		TransactionType: transactionType,
		Metadata: map[string]interface{}{
			"test": true,
		},
	}
}
