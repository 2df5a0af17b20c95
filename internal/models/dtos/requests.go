package dtos

import (
	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/directory"
)

type PhoneInput struct {
	Label     string `json:"label" validate:"required"`
	Number    string `json:"number" validate:"required"`
	SortOrder int    `json:"sortOrder" validate:"gte=0,lte=4"`
}

type StationCreateRequest struct {
	MarketNumber    int                       `json:"marketNumber" validate:"required,gte=1,lte=210"`
	MarketName      string                    `json:"marketName" validate:"required"`
	CallLetters     string                    `json:"callLetters" validate:"required"`
	Feed            constants.Feed            `json:"feed" validate:"required,oneof=3pm 5pm 6pm"`
	BroadcastStatus constants.BroadcastStatus `json:"broadcastStatus" validate:"omitempty,oneof=live rerack might"`
	AirTimeLocal    string                    `json:"airTimeLocal"`
	AirTimeET       string                    `json:"airTimeET"`
	Phones          []PhoneInput              `json:"phones" validate:"max=4,dive"`
}

type BulkUpdateRequest struct {
	StationIDs []string                `json:"stationIds" validate:"required,min=1,dive,required"`
	Updates    directory.StationPatch `json:"updates"`
}

type LogCallRequest struct {
	StationID string `json:"stationId" validate:"required"`
	PhoneID   string `json:"phoneId" validate:"required"`
}
