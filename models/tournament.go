package models

// Tournament представляет турнир.
type Tournament struct {
	ID        int    `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	StartDate Date   `json:"startDate" db:"start_date"`
	EndDate   Date   `json:"endDate" db:"end_date"`
}

// PriorResult - до какого раунда лошадь дошла в прошлом турнире (для посева).
type PriorResult struct {
	HorseID      int `db:"id_horse"`
	TournamentID int `db:"tournament_id"`
	RoundReached int `db:"round_reached"`
}
