package balance

import (
	"math"
	"testing"

	"github.com/divvyup/divvy/internal/ledger"
	"github.com/divvyup/divvy/internal/models"
)

// fixture is a ledger populated with the canonical demo scenario:
//
//	Trip group (me, Alice, Bob):
//	  Dinner $120 paid by Alice, $40 each
//	  Surfboard Rental $90 paid by me, $30 each
//	Apartment group (me, Charlie):
//	  Electricity Bill $80 paid by Charlie, $40 each
//	P2P:
//	  Coffee $10 paid by me, split with Diana $5/$5
//	  Pending settlement: Bob pays me $10
//
// Expected global view from me: Alice -10, Bob +30, Charlie -40, Diana +5.
type fixture struct {
	l          *ledger.Ledger
	me         string
	alice      string
	bob        string
	charlie    string
	diana      string
	trip       string
	apartment  string
	settlement string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	l, err := ledger.New(models.User{DisplayName: "You"})
	if err != nil {
		t.Fatalf("ledger.New failed: %v", err)
	}
	f := &fixture{l: l, me: l.CurrentUserID()}

	ids := make(map[string]string)
	for _, name := range []string{"Alice", "Bob", "Charlie", "Diana"} {
		u, err := l.AddUser(models.User{DisplayName: name})
		if err != nil {
			t.Fatalf("AddUser(%s) failed: %v", name, err)
		}
		ids[name] = u.ID
	}
	f.alice, f.bob, f.charlie, f.diana = ids["Alice"], ids["Bob"], ids["Charlie"], ids["Diana"]

	trip, err := l.AddGroup(models.Group{Name: "Trip to Hawaii", MemberIDs: []string{f.me, f.alice, f.bob}})
	if err != nil {
		t.Fatalf("AddGroup(trip) failed: %v", err)
	}
	f.trip = trip.ID
	apartment, err := l.AddGroup(models.Group{Name: "Apartment Bills", MemberIDs: []string{f.me, f.charlie}})
	if err != nil {
		t.Fatalf("AddGroup(apartment) failed: %v", err)
	}
	f.apartment = apartment.ID

	expenses := []models.Expense{
		{GroupID: f.trip, Description: "Dinner", Amount: 120, PayerID: f.alice,
			Participants: models.SplitEqually(120, []string{f.me, f.alice, f.bob}), Category: models.CategoryFood},
		{GroupID: f.trip, Description: "Surfboard Rental", Amount: 90, PayerID: f.me,
			Participants: models.SplitEqually(90, []string{f.me, f.alice, f.bob}), Category: models.CategoryTravel},
		{GroupID: f.apartment, Description: "Electricity Bill", Amount: 80, PayerID: f.charlie,
			Participants: models.SplitEqually(80, []string{f.me, f.charlie}), Category: models.CategoryHome},
		{Description: "Coffee", Amount: 10, PayerID: f.me,
			Participants: models.SplitEqually(10, []string{f.me, f.diana}), Category: models.CategoryFood},
	}
	for _, e := range expenses {
		if _, err := l.AddExpense(e); err != nil {
			t.Fatalf("AddExpense(%s) failed: %v", e.Description, err)
		}
	}

	settlement, err := l.RecordSettlement(models.Settlement{FromUserID: f.bob, ToUserID: f.me, Amount: 10})
	if err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}
	f.settlement = settlement.ID
	return f
}

func assertClose(t *testing.T, got, want float64, what string) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

func TestBalancesGlobal(t *testing.T) {
	f := newFixture(t)
	summary := Balances(f.l.Snapshot())

	assertClose(t, summary.PerUser[f.alice], -10, "balance[Alice]")
	assertClose(t, summary.PerUser[f.bob], 30, "balance[Bob]")
	assertClose(t, summary.PerUser[f.charlie], -40, "balance[Charlie]")
	assertClose(t, summary.PerUser[f.diana], 5, "balance[Diana]")
	assertClose(t, summary.Net, -15, "net")

	wantOwed := []Entry{{f.bob, 30}, {f.diana, 5}}
	if len(summary.YouAreOwed) != len(wantOwed) {
		t.Fatalf("youAreOwed has %d entries, want %d", len(summary.YouAreOwed), len(wantOwed))
	}
	for i, want := range wantOwed {
		if summary.YouAreOwed[i].UserID != want.UserID {
			t.Errorf("youAreOwed[%d] = %s, want %s", i, summary.YouAreOwed[i].UserID, want.UserID)
		}
	}

	wantOwe := []Entry{{f.charlie, -40}, {f.alice, -10}}
	for i, want := range wantOwe {
		if summary.YouOwe[i].UserID != want.UserID {
			t.Errorf("youOwe[%d] = %s, want %s", i, summary.YouOwe[i].UserID, want.UserID)
		}
	}
}

func TestNetEqualsSumOfPerUser(t *testing.T) {
	f := newFixture(t)

	check := func(label string) {
		summary := Balances(f.l.Snapshot())
		sum := 0.0
		for _, bal := range summary.PerUser {
			sum += bal
		}
		assertClose(t, summary.Net, sum, "net vs per-user sum "+label)
	}

	check("before confirmation")
	if _, err := f.l.ConfirmSettlement(f.settlement, f.me); err != nil {
		t.Fatalf("ConfirmSettlement failed: %v", err)
	}
	check("after confirmation")
}

func TestThreeWayEqualSplitScenario(t *testing.T) {
	// A pays $120 for a 3-way group expense split $40 each among A, B, C.
	l, err := ledger.New(models.User{DisplayName: "A"})
	if err != nil {
		t.Fatalf("ledger.New failed: %v", err)
	}
	a := l.CurrentUserID()
	b, _ := l.AddUser(models.User{DisplayName: "B"})
	c, _ := l.AddUser(models.User{DisplayName: "C"})
	group, err := l.AddGroup(models.Group{Name: "Trip", MemberIDs: []string{a, b.ID, c.ID}})
	if err != nil {
		t.Fatalf("AddGroup failed: %v", err)
	}
	if _, err := l.AddExpense(models.Expense{
		GroupID:      group.ID,
		Description:  "Dinner",
		Amount:       120,
		PayerID:      a,
		Participants: models.SplitEqually(120, []string{a, b.ID, c.ID}),
		Category:     models.CategoryFood,
	}); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	summary := Balances(l.Snapshot())
	assertClose(t, summary.PerUser[b.ID], 40, "balance[B]")
	assertClose(t, summary.PerUser[c.ID], 40, "balance[C]")
	assertClose(t, summary.Net, 80, "net")
}

func TestPayerNotParticipant(t *testing.T) {
	// When the current user pays an expense they do not participate in,
	// nothing is subtracted for a share of their own: the full amount
	// comes back as owed.
	l, err := ledger.New(models.User{DisplayName: "P"})
	if err != nil {
		t.Fatalf("ledger.New failed: %v", err)
	}
	p := l.CurrentUserID()
	a, _ := l.AddUser(models.User{DisplayName: "A"})
	b, _ := l.AddUser(models.User{DisplayName: "B"})

	if _, err := l.AddExpense(models.Expense{
		Description:  "Treat",
		Amount:       30,
		PayerID:      p,
		Participants: models.SplitEqually(30, []string{a.ID, b.ID}),
		Category:     models.CategoryFood,
	}); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	summary := Balances(l.Snapshot())
	assertClose(t, summary.PerUser[a.ID], 15, "balance[A]")
	assertClose(t, summary.PerUser[b.ID], 15, "balance[B]")
	assertClose(t, summary.Net, 30, "net")
	if _, ok := summary.PerUser[p]; ok {
		t.Error("current user must not appear among counterparty balances")
	}
}

func TestSettlementSymmetry(t *testing.T) {
	// A confirmed settlement from X to the current user shifts X's balance
	// by -amount; the reverse direction shifts it by +amount.
	run := func(t *testing.T, fromFriend bool) float64 {
		l, err := ledger.New(models.User{DisplayName: "Me"})
		if err != nil {
			t.Fatalf("ledger.New failed: %v", err)
		}
		me := l.CurrentUserID()
		x, _ := l.AddUser(models.User{DisplayName: "X"})

		from, to := me, x.ID
		if fromFriend {
			from, to = x.ID, me
		}
		st, err := l.RecordSettlement(models.Settlement{FromUserID: from, ToUserID: to, Amount: 25})
		if err != nil {
			t.Fatalf("RecordSettlement failed: %v", err)
		}
		if _, err := l.ConfirmSettlement(st.ID, to); err != nil {
			t.Fatalf("ConfirmSettlement failed: %v", err)
		}
		return Balances(l.Snapshot()).PerUser[x.ID]
	}

	toMe := run(t, true)
	fromMe := run(t, false)
	assertClose(t, toMe, -fromMe, "reversed settlement delta")
	assertClose(t, toMe, -25, "settlement received")
	assertClose(t, fromMe, 25, "settlement sent")
}

func TestPendingSettlementDoesNotCount(t *testing.T) {
	f := newFixture(t)

	before := Balances(f.l.Snapshot())
	assertClose(t, before.PerUser[f.bob], 30, "balance[Bob] before confirmation")

	if _, err := f.l.ConfirmSettlement(f.settlement, f.me); err != nil {
		t.Fatalf("ConfirmSettlement failed: %v", err)
	}
	after := Balances(f.l.Snapshot())
	assertClose(t, after.PerUser[f.bob], before.PerUser[f.bob]-10, "balance[Bob] after confirmation")

	// Confirming twice produces the same state as confirming once.
	if _, err := f.l.ConfirmSettlement(f.settlement, f.me); err != nil {
		t.Fatalf("repeat ConfirmSettlement failed: %v", err)
	}
	again := Balances(f.l.Snapshot())
	assertClose(t, again.PerUser[f.bob], after.PerUser[f.bob], "balance[Bob] after repeat confirmation")
}

func TestFriendBalanceP2P(t *testing.T) {
	f := newFixture(t)

	// $10 coffee paid by me, split $5/$5 with Diana.
	assertClose(t, FriendBalance(f.l.Snapshot(), f.diana), 5, "friend balance Diana")

	// Group history is invisible pairwise: Alice owes nothing P2P.
	assertClose(t, FriendBalance(f.l.Snapshot(), f.alice), 0, "friend balance Alice")
}

func TestFriendBalanceUsesStoredShares(t *testing.T) {
	l, err := ledger.New(models.User{DisplayName: "Me"})
	if err != nil {
		t.Fatalf("ledger.New failed: %v", err)
	}
	me := l.CurrentUserID()
	d, _ := l.AddUser(models.User{DisplayName: "D"})

	// Unequal P2P split: I paid $10, D's stored share is $8.
	if _, err := l.AddExpense(models.Expense{
		Description: "Lunch",
		Amount:      10,
		PayerID:     me,
		Participants: []models.Participant{
			{UserID: me, Share: 2},
			{UserID: d.ID, Share: 8},
		},
		Category: models.CategoryFood,
	}); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	assertClose(t, FriendBalance(l.Snapshot(), d.ID), 8, "unequal pairwise balance")
	// Pairwise and global must agree on P2P-only history.
	assertClose(t, Balances(l.Snapshot()).PerUser[d.ID], 8, "global balance for D")
}

func TestSettlingPairwiseDebtFully(t *testing.T) {
	f := newFixture(t)
	snap := f.l.Snapshot()

	outstanding := FriendBalance(snap, f.diana)
	if Settled(outstanding) {
		t.Fatal("fixture should start with an outstanding pairwise debt")
	}

	// Diana pays back exactly what she owes; I confirm receipt.
	st, err := f.l.RecordSettlement(models.Settlement{FromUserID: f.diana, ToUserID: f.me, Amount: outstanding})
	if err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}
	if _, err := f.l.ConfirmSettlement(st.ID, f.me); err != nil {
		t.Fatalf("ConfirmSettlement failed: %v", err)
	}

	remaining := FriendBalance(f.l.Snapshot(), f.diana)
	if !Settled(remaining) {
		t.Errorf("pairwise balance after full settlement = %v, want settled", remaining)
	}
}

func TestGroupBalance(t *testing.T) {
	f := newFixture(t)
	snap := f.l.Snapshot()

	// Trip: -40 for dinner, +60 for the surfboard I paid.
	assertClose(t, GroupBalance(snap, f.trip), 20, "trip balance")
	assertClose(t, GroupBalance(snap, f.apartment), -40, "apartment balance")

	// A confirmed settlement scoped to the group moves the group balance;
	// the pending fixture settlement is P2P and must not.
	st, err := f.l.RecordSettlement(models.Settlement{
		GroupID:    f.apartment,
		FromUserID: f.me,
		ToUserID:   f.charlie,
		Amount:     40,
	})
	if err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}
	assertClose(t, GroupBalance(f.l.Snapshot(), f.apartment), -40, "apartment balance with pending settlement")

	if _, err := f.l.ConfirmSettlement(st.ID, f.charlie); err != nil {
		t.Fatalf("ConfirmSettlement failed: %v", err)
	}
	if got := GroupBalance(f.l.Snapshot(), f.apartment); !Settled(got) {
		t.Errorf("apartment balance after settling = %v, want settled", got)
	}
}

func TestGroupBalanceUsesStoredShares(t *testing.T) {
	l, err := ledger.New(models.User{DisplayName: "Me"})
	if err != nil {
		t.Fatalf("ledger.New failed: %v", err)
	}
	me := l.CurrentUserID()
	a, _ := l.AddUser(models.User{DisplayName: "A"})
	group, err := l.AddGroup(models.Group{Name: "Flat", MemberIDs: []string{me, a.ID}})
	if err != nil {
		t.Fatalf("AddGroup failed: %v", err)
	}

	// Unequal group split: A paid $100, my stored share is $25.
	if _, err := l.AddExpense(models.Expense{
		GroupID:     group.ID,
		Description: "Groceries",
		Amount:      100,
		PayerID:     a.ID,
		Participants: []models.Participant{
			{UserID: me, Share: 25},
			{UserID: a.ID, Share: 75},
		},
		Category: models.CategoryHome,
	}); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	// Stored shares win over an even re-division ($50).
	assertClose(t, GroupBalance(l.Snapshot(), group.ID), -25, "unequal group balance")
	// Group and global views agree when the group is the only history.
	assertClose(t, Balances(l.Snapshot()).PerUser[a.ID], -25, "global balance for A")
}

func TestSortingAndTieBreak(t *testing.T) {
	l, err := ledger.New(models.User{DisplayName: "Me"})
	if err != nil {
		t.Fatalf("ledger.New failed: %v", err)
	}
	me := l.CurrentUserID()

	// Insertion order: first, second, third. First and third owe the same
	// amount; second owes more.
	first, _ := l.AddUser(models.User{DisplayName: "First"})
	second, _ := l.AddUser(models.User{DisplayName: "Second"})
	third, _ := l.AddUser(models.User{DisplayName: "Third"})

	add := func(friendID string, amount float64) {
		t.Helper()
		if _, err := l.AddExpense(models.Expense{
			Description:  "Split",
			Amount:       amount,
			PayerID:      me,
			Participants: []models.Participant{{UserID: me, Share: 0}, {UserID: friendID, Share: amount}},
			Category:     models.CategoryOther,
		}); err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}
	}
	add(first.ID, 20)
	add(second.ID, 50)
	add(third.ID, 20)

	summary := Balances(l.Snapshot())
	want := []string{second.ID, first.ID, third.ID}
	if len(summary.YouAreOwed) != 3 {
		t.Fatalf("youAreOwed has %d entries, want 3", len(summary.YouAreOwed))
	}
	for i, id := range want {
		if summary.YouAreOwed[i].UserID != id {
			t.Errorf("youAreOwed[%d] = %s, want %s (ties keep insertion order)", i, summary.YouAreOwed[i].UserID, id)
		}
	}
}

func TestSettled(t *testing.T) {
	tests := []struct {
		amount float64
		want   bool
	}{
		{0, true},
		{0.009, true},
		{-0.009, true},
		{0.01, false},
		{-0.02, false},
		{5, false},
	}
	for _, tt := range tests {
		if got := Settled(tt.amount); got != tt.want {
			t.Errorf("Settled(%v) = %v, want %v", tt.amount, got, tt.want)
		}
	}
}
