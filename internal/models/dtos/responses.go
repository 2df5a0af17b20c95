package dtos

import (
	"time"

	"infinite-experiment/calllist/internal/constants"
)

type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// PhoneView is a phone as shown in station listings.
type PhoneView struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Number    string `json:"number"`
	Display   string `json:"display"`
	Dial      string `json:"dial"`
	SortOrder int    `json:"sortOrder"`
}

// StationView is a station with its phones and the "called today" annotation.
type StationView struct {
	ID              string                    `json:"id"`
	MarketNumber    int                       `json:"marketNumber"`
	MarketName      string                    `json:"marketName"`
	CallLetters     string                    `json:"callLetters"`
	Feed            constants.Feed            `json:"feed"`
	BroadcastStatus constants.BroadcastStatus `json:"broadcastStatus"`
	AirTimeLocal    string                    `json:"airTimeLocal"`
	AirTimeET       string                    `json:"airTimeET"`
	AirTimeLabel    string                    `json:"airTimeLabel"`
	IsActive        bool                      `json:"isActive"`
	Phones          []PhoneView               `json:"phones"`
	CalledToday     bool                      `json:"calledToday"`
	CalledAt        *time.Time                `json:"calledAt"`
}

// ImportResponse is the outcome of a feed import. Errors holds at most the
// first ten row errors; ErrorCount is the full number.
type ImportResponse struct {
	Success    bool     `json:"success"`
	Created    int      `json:"created"`
	Updated    int      `json:"updated"`
	Errors     []string `json:"errors"`
	ErrorCount int      `json:"errorCount"`
}

type BulkUpdateResponse struct {
	Updated int `json:"updated"`
	Logged  int `json:"logged"`
}

type ResetResponse struct {
	Success bool  `json:"success"`
	Cleared int64 `json:"cleared"`
}

// Page wraps one page of a listing.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
	Uptime   string            `json:"uptime"`
}
