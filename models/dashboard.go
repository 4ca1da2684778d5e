package models

type DashboardStats struct {
	PlayersTotal int `json:"players_total"`
	OpenTickets  int `json:"open_tickets"`
	Rules        int `json:"rules"`
	Commands     int `json:"commands"`
	Bans         int `json:"bans"`
	Sponsors     int `json:"sponsors"`
}
