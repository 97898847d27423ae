// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import "github.com/danielhkuo/palette/models"

// FirstPerAuthor selects the first A photo and the first B photo of a group,
// in slice order. Later photos of an already-selected author are shadowed and
// counted in shadowed. A nil result means the group has no photo of that author.
//
// This is the only duplicate policy: pairing and the admin view both use it,
// so the photo shown to voters is the one the admin sees as selected.
func FirstPerAuthor(group []models.Photo) (a, b *models.Photo, shadowed int) {
	for i := range group {
		p := group[i]
		switch p.Author {
		case models.AuthorA:
			if a != nil {
				shadowed++
				continue
			}
			a = &p
		case models.AuthorB:
			if b != nil {
				shadowed++
				continue
			}
			b = &p
		}
	}
	return a, b, shadowed
}

// BuildComparisonPairs groups photos by OriginalID and pairs the FirstPerAuthor
// selections of every group. Groups missing either author are dropped. Pairs
// are ordered by the first appearance of their OriginalID in photos.
func BuildComparisonPairs(photos []models.Photo) ([]models.ComparisonPair, error) {
	if err := checkPhotos(photos); err != nil {
		return nil, err
	}

	order, groups := groupByOriginal(photos)
	pairs := make([]models.ComparisonPair, 0, len(order))
	for _, originalID := range order {
		a, b, _ := FirstPerAuthor(groups[originalID])
		if a == nil || b == nil {
			continue
		}
		pairs = append(pairs, models.ComparisonPair{
			OriginalID: originalID,
			PhotoA:     *a,
			PhotoB:     *b,
		})
	}

	return pairs, nil
}

// GroupPairSlots reports every OriginalID group, complete or not, for the
// admin view. Order matches BuildComparisonPairs.
func GroupPairSlots(photos []models.Photo) ([]models.PairSlot, error) {
	if err := checkPhotos(photos); err != nil {
		return nil, err
	}

	order, groups := groupByOriginal(photos)
	slots := make([]models.PairSlot, 0, len(order))
	for _, originalID := range order {
		a, b, shadowed := FirstPerAuthor(groups[originalID])
		slots = append(slots, models.PairSlot{
			OriginalID: originalID,
			A:          a,
			B:          b,
			Complete:   a != nil && b != nil,
			Duplicates: shadowed,
		})
	}

	return slots, nil
}

// groupByOriginal returns OriginalIDs in first-appearance order and the
// photos of each group in input order.
func groupByOriginal(photos []models.Photo) ([]string, map[string][]models.Photo) {
	var order []string
	groups := make(map[string][]models.Photo)
	for _, p := range photos {
		if _, seen := groups[p.OriginalID]; !seen {
			order = append(order, p.OriginalID)
		}
		groups[p.OriginalID] = append(groups[p.OriginalID], p)
	}
	return order, groups
}
