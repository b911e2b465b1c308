package main

import (
	"context"
	"fmt"

	"github.com/divvyup/divvy/internal/ledger"
	"github.com/divvyup/divvy/internal/models"
	"github.com/divvyup/divvy/internal/storage"
)

// seedDemoData populates a fresh ledger with a small, self-consistent
// dataset: two groups, a few expenses and one pending settlement. Useful for
// trying the API without typing everything in by hand.
func seedDemoData(ctx context.Context, l *ledger.Ledger, store storage.Store) error {
	me := l.CurrentUserID()

	var friends []models.User
	for _, name := range []string{"Alice", "Bob", "Charlie", "Diana"} {
		u, err := l.AddUser(models.User{DisplayName: name})
		if err != nil {
			return err
		}
		if err := store.SaveUser(ctx, &u); err != nil {
			return err
		}
		friends = append(friends, u)
	}
	alice, bob, charlie, diana := friends[0], friends[1], friends[2], friends[3]

	trip, err := l.AddGroup(models.Group{
		Name:      "Trip to Hawaii",
		MemberIDs: []string{me, alice.ID, bob.ID},
	})
	if err != nil {
		return err
	}
	apartment, err := l.AddGroup(models.Group{
		Name:      "Apartment Bills",
		MemberIDs: []string{me, charlie.ID},
	})
	if err != nil {
		return err
	}
	for _, g := range []models.Group{trip, apartment} {
		if err := store.SaveGroup(ctx, &g); err != nil {
			return err
		}
	}

	expenses := []models.Expense{
		{
			GroupID:      trip.ID,
			Description:  "Dinner",
			Amount:       120,
			PayerID:      alice.ID,
			Participants: models.SplitEqually(120, []string{me, alice.ID, bob.ID}),
			Category:     models.CategoryFood,
		},
		{
			GroupID:      trip.ID,
			Description:  "Surfboard Rental",
			Amount:       90,
			PayerID:      me,
			Participants: models.SplitEqually(90, []string{me, alice.ID, bob.ID}),
			Category:     models.CategoryTravel,
		},
		{
			GroupID:      apartment.ID,
			Description:  "Electricity Bill",
			Amount:       80,
			PayerID:      charlie.ID,
			Participants: models.SplitEqually(80, []string{me, charlie.ID}),
			Category:     models.CategoryHome,
		},
		{
			Description:  "Coffee",
			Amount:       10,
			PayerID:      me,
			Participants: models.SplitEqually(10, []string{me, diana.ID}),
			Category:     models.CategoryFood,
		},
	}
	for _, e := range expenses {
		added, err := l.AddExpense(e)
		if err != nil {
			return fmt.Errorf("failed to seed expense %q: %w", e.Description, err)
		}
		if err := store.SaveExpense(ctx, &added); err != nil {
			return err
		}
	}

	settlement, err := l.RecordSettlement(models.Settlement{
		FromUserID: bob.ID,
		ToUserID:   me,
		Amount:     10,
		Note:       "Surf trip payback",
	})
	if err != nil {
		return err
	}
	return store.SaveSettlement(ctx, &settlement)
}
