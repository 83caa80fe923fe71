package models

import (
	"fmt"
	"time"
)

type TournamentType string

const (
	TournamentIndividual   TournamentType = "individual"
	TournamentNeighborhood TournamentType = "neighborhood"
)

type TournamentParticipant struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Score  int    `json:"score"`
}

type TournamentPrize struct {
	Position int    `json:"position"`
	Points   int    `json:"points"`
	Badge    string `json:"badge,omitempty"`
}

// Tournament is a time-boxed competition scored by points earned while it
// is active.
type Tournament struct {
	ID           string                  `json:"id" validate:"required"`
	Name         string                  `json:"name" validate:"required"`
	Description  string                  `json:"description"`
	Type         TournamentType          `json:"type" validate:"oneof=individual neighborhood"`
	StartDate    time.Time               `json:"startDate"`
	EndDate      time.Time               `json:"endDate"`
	Participants []TournamentParticipant `json:"participants"`
	Prizes       []TournamentPrize       `json:"prizes"`
	Active       bool                    `json:"active"`
	FinalizedAt  *time.Time              `json:"finalizedAt,omitempty"`
}

// Running reports whether t accepts score at instant now.
func (t *Tournament) Running(now time.Time) bool {
	return t.Active && !now.Before(t.StartDate) && !now.After(t.EndDate)
}

// MonthlyTournamentID keeps the stored id format: the zero-based month.
func MonthlyTournamentID(now time.Time) string {
	return fmt.Sprintf("monthly_%d", int(now.Month())-1)
}

// NewMonthlyTournament spans the calendar month of now (UTC).
func NewMonthlyTournament(now time.Time) Tournament {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return Tournament{
		ID:           MonthlyTournamentID(now),
		Name:         "Torneo Mensual de Colaboración",
		Description:  "Compite con otros usuarios para ser el más colaborativo del mes",
		Type:         TournamentIndividual,
		StartDate:    start,
		EndDate:      end,
		Participants: []TournamentParticipant{},
		Prizes: []TournamentPrize{
			{Position: 1, Points: 1000, Badge: "monthly_champion"},
			{Position: 2, Points: 500, Badge: "monthly_runner_up"},
			{Position: 3, Points: 250, Badge: "monthly_third"},
		},
		Active: true,
	}
}
