package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/logging"
	"infinite-experiment/calllist/internal/metrics"
	gormModels "infinite-experiment/calllist/internal/models/gorm"
	"infinite-experiment/calllist/internal/models/dtos"
	"infinite-experiment/calllist/internal/phone"
)

// PhoneService performs incremental edits on a station's ranked phones.
// Every operation locks the station row first, so two edits to the same
// station never interleave their rank writes.
type PhoneService struct {
	store   *Store
	metrics *metrics.MetricsRegistry
	clock   directory.Clock
	region  string
}

func NewPhoneService(store *Store, m *metrics.MetricsRegistry, clock directory.Clock, region string) *PhoneService {
	if clock == nil {
		clock = time.Now
	}
	return &PhoneService{store: store, metrics: m, clock: clock, region: region}
}

// lockPhones takes the station lock and loads its phones in rank order.
func lockPhones(ctx context.Context, tx *Store, stationID string, now time.Time) ([]gormModels.PhoneNumber, error) {
	if err := tx.Stations.Touch(ctx, stationID, now); err != nil {
		return nil, err
	}
	return tx.Phones.ListByStation(ctx, stationID)
}

func findPhone(phones []gormModels.PhoneNumber, id string) *gormModels.PhoneNumber {
	for i := range phones {
		if phones[i].ID == id {
			return &phones[i]
		}
	}
	return nil
}

func (s *PhoneService) normalize(raw string) (string, error) {
	number, err := phone.Normalize(raw, s.region)
	if err != nil {
		return "", directory.Validationf("phone %q: %v", raw, err)
	}
	return number, nil
}

// Add inserts a phone. A zero SortOrder appends; otherwise the phone takes
// that rank and the ones at or below it shift down.
func (s *PhoneService) Add(ctx context.Context, stationID string, in dtos.PhoneInput, editor string) (phoneOut *gormModels.PhoneNumber, err error) {
	defer func() { s.metrics.PhoneMutation("add", err) }()

	label := strings.TrimSpace(in.Label)
	if label == "" {
		return nil, directory.Validationf("label must not be empty")
	}
	number, err := s.normalize(in.Number)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	created := &gormModels.PhoneNumber{ID: uuid.NewString(), StationID: stationID, Label: label, Number: number}

	err = s.store.Transaction(ctx, func(tx *Store) error {
		phones, err := lockPhones(ctx, tx, stationID, now)
		if err != nil {
			return err
		}

		changes, err := directory.Insert(gormModels.RankedPhones(phones), created.ID, in.SortOrder)
		if err != nil {
			return err
		}
		for _, c := range changes {
			if c.ID == created.ID {
				created.SortOrder = c.To
			}
		}

		if err := tx.Phones.ApplyRanks(ctx, changes); err != nil {
			return err
		}
		if err := tx.Phones.Create(ctx, created); err != nil {
			return err
		}
		return tx.EditLogs.Append(ctx, stationID, editor, now, []directory.Change{directory.PhoneAdded(created.Desc())})
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Phone added", "station_id", stationID, "phone_id", created.ID, "sort_order", created.SortOrder)
	return created, nil
}

// Update edits label, number and rank. A rank change moves the phone and
// shifts the ones in between; nothing else is touched.
func (s *PhoneService) Update(ctx context.Context, stationID, phoneID string, patch directory.PhonePatch, editor string) (phoneOut *gormModels.PhoneNumber, err error) {
	defer func() { s.metrics.PhoneMutation("update", err) }()

	if err := patch.Validate(); err != nil {
		return nil, err
	}
	values := map[string]interface{}{}
	if patch.Label != nil {
		values["label"] = strings.TrimSpace(*patch.Label)
	}
	if patch.Number != nil {
		number, err := s.normalize(*patch.Number)
		if err != nil {
			return nil, err
		}
		values["number"] = number
	}

	now := s.clock()
	var updated gormModels.PhoneNumber

	err = s.store.Transaction(ctx, func(tx *Store) error {
		phones, err := lockPhones(ctx, tx, stationID, now)
		if err != nil {
			return err
		}
		target := findPhone(phones, phoneID)
		if target == nil {
			return directory.ErrPhoneNotInStation
		}

		before := target.Desc()
		updated = *target
		if label, ok := values["label"].(string); ok {
			if label == target.Label {
				delete(values, "label")
			}
			updated.Label = label
		}
		if number, ok := values["number"].(string); ok {
			if number == target.Number {
				delete(values, "number")
			}
			updated.Number = number
		}

		if patch.SortOrder != nil && *patch.SortOrder != target.SortOrder {
			changes, err := directory.Move(gormModels.RankedPhones(phones), phoneID, *patch.SortOrder)
			if err != nil {
				return err
			}
			if err := tx.Phones.ApplyRanks(ctx, changes); err != nil {
				return err
			}
			for _, c := range changes {
				if c.ID == phoneID {
					updated.SortOrder = c.To
				}
			}
		}

		change, ok := directory.PhoneEdited(before, updated.Desc())
		if !ok {
			return nil
		}
		if len(values) > 0 {
			if err := tx.Phones.Update(ctx, phoneID, values); err != nil {
				return err
			}
		}
		return tx.EditLogs.Append(ctx, stationID, editor, now, []directory.Change{change})
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Phone updated", "station_id", stationID, "phone_id", phoneID)
	return &updated, nil
}

// Delete removes a phone and closes the rank gap it leaves. The last phone of
// a station cannot be removed.
func (s *PhoneService) Delete(ctx context.Context, stationID, phoneID string, editor string) (err error) {
	defer func() { s.metrics.PhoneMutation("delete", err) }()

	now := s.clock()
	err = s.store.Transaction(ctx, func(tx *Store) error {
		phones, err := lockPhones(ctx, tx, stationID, now)
		if err != nil {
			return err
		}
		target := findPhone(phones, phoneID)
		if target == nil {
			return directory.ErrPhoneNotInStation
		}
		if err := directory.CheckRemove(len(phones)); err != nil {
			return err
		}

		if err := tx.Phones.Delete(ctx, phoneID); err != nil {
			return err
		}

		remaining := make([]directory.Ranked, 0, len(phones)-1)
		for i := range phones {
			if phones[i].ID != phoneID {
				remaining = append(remaining, phones[i].Ranked())
			}
		}
		if err := tx.Phones.ApplyRanks(ctx, directory.Compact(remaining)); err != nil {
			return err
		}
		return tx.EditLogs.Append(ctx, stationID, editor, now, []directory.Change{directory.PhoneRemoved(target.Desc())})
	})
	if err != nil {
		return err
	}

	logging.Info("Phone deleted", "station_id", stationID, "phone_id", phoneID)
	return nil
}

// MakePrimary promotes a phone to rank 1. Promoting the current primary
// changes nothing and writes no audit entry.
func (s *PhoneService) MakePrimary(ctx context.Context, stationID, phoneID string, editor string) (phonesOut []gormModels.PhoneNumber, err error) {
	defer func() { s.metrics.PhoneMutation("primary", err) }()

	now := s.clock()
	err = s.store.Transaction(ctx, func(tx *Store) error {
		phones, err := lockPhones(ctx, tx, stationID, now)
		if err != nil {
			return err
		}
		target := findPhone(phones, phoneID)
		if target == nil {
			return directory.ErrPhoneNotInStation
		}

		changes, err := directory.Promote(gormModels.RankedPhones(phones), phoneID)
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			phonesOut = phones
			return nil
		}

		var oldPrimary *directory.PhoneDesc
		for i := range phones {
			if phones[i].SortOrder == 1 {
				desc := phones[i].Desc()
				oldPrimary = &desc
			}
		}

		if err := tx.Phones.ApplyRanks(ctx, changes); err != nil {
			return err
		}
		if err := tx.EditLogs.Append(ctx, stationID, editor, now, []directory.Change{directory.PrimaryChanged(oldPrimary, target.Desc())}); err != nil {
			return err
		}

		phonesOut, err = tx.Phones.ListByStation(ctx, stationID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Primary phone updated", "station_id", stationID, "phone_id", phoneID)
	return phonesOut, nil
}
