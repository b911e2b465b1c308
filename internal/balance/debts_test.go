package balance

import (
	"errors"
	"math"
	"testing"

	"github.com/divvyup/divvy/internal/ledger"
	"github.com/divvyup/divvy/internal/models"
)

func TestGroupMemberBalances(t *testing.T) {
	f := newFixture(t)

	members, transfers, err := GroupMemberBalances(f.l.Snapshot(), f.trip)
	if err != nil {
		t.Fatalf("GroupMemberBalances failed: %v", err)
	}

	// Dinner $120 paid by Alice, surfboard $90 paid by me, both 3-way.
	want := []MemberBalance{
		{UserID: f.me, TotalPaid: 90, TotalOwed: 70, Net: 20},
		{UserID: f.alice, TotalPaid: 120, TotalOwed: 70, Net: 50},
		{UserID: f.bob, TotalPaid: 0, TotalOwed: 70, Net: -70},
	}
	if len(members) != len(want) {
		t.Fatalf("got %d members, want %d", len(members), len(want))
	}
	for i, w := range want {
		got := members[i]
		if got.UserID != w.UserID {
			t.Errorf("members[%d] = %s, want %s (group membership order)", i, got.UserID, w.UserID)
			continue
		}
		assertClose(t, got.TotalPaid, w.TotalPaid, "totalPaid["+w.UserID+"]")
		assertClose(t, got.TotalOwed, w.TotalOwed, "totalOwed["+w.UserID+"]")
		assertClose(t, got.Net, w.Net, "net["+w.UserID+"]")
	}

	// Greedy matching: Bob (-70) pays Alice (+50) first, then me (+20).
	wantTransfers := []DebtEdge{
		{FromUserID: f.bob, ToUserID: f.alice, Amount: 50},
		{FromUserID: f.bob, ToUserID: f.me, Amount: 20},
	}
	if len(transfers) != len(wantTransfers) {
		t.Fatalf("got %d transfers, want %d: %+v", len(transfers), len(wantTransfers), transfers)
	}
	for i, w := range wantTransfers {
		got := transfers[i]
		if got.FromUserID != w.FromUserID || got.ToUserID != w.ToUserID {
			t.Errorf("transfers[%d] = %s->%s, want %s->%s", i, got.FromUserID, got.ToUserID, w.FromUserID, w.ToUserID)
		}
		assertClose(t, got.Amount, w.Amount, "transfer amount")
	}
}

func TestGroupMemberBalancesUnknownGroup(t *testing.T) {
	f := newFixture(t)

	_, _, err := GroupMemberBalances(f.l.Snapshot(), "no-such-group")
	var notFound *ledger.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want NotFoundError", err)
	}
	if notFound.Kind != "group" {
		t.Errorf("NotFoundError.Kind = %s, want group", notFound.Kind)
	}
}

func TestGroupMemberBalancesCountsSettlements(t *testing.T) {
	f := newFixture(t)

	// Bob settles part of his trip debt to Alice; only confirmation counts.
	st, err := f.l.RecordSettlement(models.Settlement{
		GroupID:    f.trip,
		FromUserID: f.bob,
		ToUserID:   f.alice,
		Amount:     50,
	})
	if err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}

	members, _, err := GroupMemberBalances(f.l.Snapshot(), f.trip)
	if err != nil {
		t.Fatalf("GroupMemberBalances failed: %v", err)
	}
	assertClose(t, members[2].Net, -70, "Bob's net with pending settlement")

	if _, err := f.l.ConfirmSettlement(st.ID, f.alice); err != nil {
		t.Fatalf("ConfirmSettlement failed: %v", err)
	}
	members, transfers, err := GroupMemberBalances(f.l.Snapshot(), f.trip)
	if err != nil {
		t.Fatalf("GroupMemberBalances failed: %v", err)
	}
	assertClose(t, members[1].Net, 0, "Alice's net after being paid")
	assertClose(t, members[2].Net, -20, "Bob's net after paying Alice")

	wantTransfers := []DebtEdge{{FromUserID: f.bob, ToUserID: f.me, Amount: 20}}
	if len(transfers) != 1 || transfers[0].FromUserID != wantTransfers[0].FromUserID ||
		transfers[0].ToUserID != wantTransfers[0].ToUserID {
		t.Fatalf("got transfers %+v, want %+v", transfers, wantTransfers)
	}
}

func TestSimplifyDebtsConserves(t *testing.T) {
	// Whatever the shape of the graph, the transfers must pay every debtor's
	// debt exactly and never exceed any creditor's due.
	members := []MemberBalance{
		{UserID: "a", Net: -33.5},
		{UserID: "b", Net: 60},
		{UserID: "c", Net: -41.5},
		{UserID: "d", Net: 15},
		{UserID: "e", Net: 0},
	}
	edges := simplifyDebts(members)

	if len(edges) > len(members)-1 {
		t.Errorf("got %d transfers, want at most %d", len(edges), len(members)-1)
	}

	paid := make(map[string]float64)
	received := make(map[string]float64)
	for _, e := range edges {
		if e.Amount < epsilon {
			t.Errorf("transfer %s->%s has negligible amount %v", e.FromUserID, e.ToUserID, e.Amount)
		}
		paid[e.FromUserID] += e.Amount
		received[e.ToUserID] += e.Amount
	}
	for _, m := range members {
		switch {
		case m.Net <= -epsilon:
			if math.Abs(paid[m.UserID]-(-m.Net)) > 0.01 {
				t.Errorf("%s pays %v, owes %v", m.UserID, paid[m.UserID], -m.Net)
			}
		case m.Net >= epsilon:
			if math.Abs(received[m.UserID]-m.Net) > 0.01 {
				t.Errorf("%s receives %v, is due %v", m.UserID, received[m.UserID], m.Net)
			}
		default:
			if paid[m.UserID] != 0 || received[m.UserID] != 0 {
				t.Errorf("settled member %s appears in transfers", m.UserID)
			}
		}
	}
}

func TestSimplifyDebtsEmpty(t *testing.T) {
	if edges := simplifyDebts(nil); len(edges) != 0 {
		t.Errorf("got %d transfers for no members, want 0", len(edges))
	}
	settled := []MemberBalance{{UserID: "a", Net: 0.001}, {UserID: "b", Net: -0.001}}
	if edges := simplifyDebts(settled); len(edges) != 0 {
		t.Errorf("got %d transfers for a settled group, want 0", len(edges))
	}
}
