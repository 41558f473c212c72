package services

// DefaultTeamCreationFee is charged to a coach when their team is approved
const DefaultTeamCreationFee int64 = 500_000

// tournamentFeeDivisor makes the tournament creation fee 1% of the prize pool
const tournamentFeeDivisor = 100

// TournamentCreationFee returns the admin fee for a prize pool, rounded down
func TournamentCreationFee(totalPrizeMoney int64) int64 {
	if totalPrizeMoney <= 0 {
		return 0
	}
	return totalPrizeMoney / tournamentFeeDivisor
}

// FeeDelta returns what the sponsor owes (positive) or is owed (negative)
// when the prize pool changes
func FeeDelta(oldPrizeMoney, newPrizeMoney int64) int64 {
	return TournamentCreationFee(newPrizeMoney) - TournamentCreationFee(oldPrizeMoney)
}

// FeePolicy holds the configurable parts of the fee schedule
type FeePolicy struct {
	teamCreationFee int64
}

// NewFeePolicy creates a fee policy. A non-positive team fee falls back to the default.
func NewFeePolicy(teamCreationFee int64) *FeePolicy {
	if teamCreationFee <= 0 {
		teamCreationFee = DefaultTeamCreationFee
	}
	return &FeePolicy{teamCreationFee: teamCreationFee}
}

// TeamCreationFee returns the fixed fee for approving a team
func (p *FeePolicy) TeamCreationFee() int64 {
	return p.teamCreationFee
}

// TournamentCreationFee returns the admin fee for a prize pool
func (p *FeePolicy) TournamentCreationFee(totalPrizeMoney int64) int64 {
	return TournamentCreationFee(totalPrizeMoney)
}

// FeeDelta returns the signed fee change for a prize pool amendment
func (p *FeePolicy) FeeDelta(oldPrizeMoney, newPrizeMoney int64) int64 {
	return FeeDelta(oldPrizeMoney, newPrizeMoney)
}
