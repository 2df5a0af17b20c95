package services

import (
	"context"

	"infinite-experiment/calllist/internal/directory"
	gormModels "infinite-experiment/calllist/internal/models/gorm"
)

// replacePhones discards a station's phone set and recreates it from
// candidates in feed-column order. Phone ids do not survive. This is the only
// destructive phone path; incremental edits go through PhoneService.
func replacePhones(ctx context.Context, tx *Store, station *gormModels.Station, candidates []directory.CandidatePhone) (before, after []directory.PhoneDesc, err error) {
	for i := range station.Phones {
		before = append(before, station.Phones[i].Desc())
	}

	if _, err := tx.Phones.DeleteByStation(ctx, station.ID); err != nil {
		return nil, nil, err
	}

	ranks := directory.FeedOrder(len(candidates))
	phones := make([]gormModels.PhoneNumber, len(ranks))
	for i, rank := range ranks {
		phones[i] = gormModels.PhoneNumber{
			StationID: station.ID,
			Label:     candidates[i].Label,
			Number:    candidates[i].Number,
			SortOrder: rank,
		}
		after = append(after, phones[i].Desc())
	}
	if err := tx.Phones.CreateMany(ctx, phones); err != nil {
		return nil, nil, err
	}

	station.Phones = phones
	return before, after, nil
}
