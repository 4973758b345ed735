package models

import (
	"context"
	"testing"
)

func TestPlaceBountyMirrorsOntoPlayer(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	bounty, err := PlaceBounty(ctx, db, "guild1", "s1", "hunter", "raven", 500)
	if err != nil {
		t.Fatalf("PlaceBounty: %v", err)
	}
	if bounty.Status != BountyStatusOpen {
		t.Errorf("Status = %s, want open", bounty.Status)
	}

	player, err := GetPlayerByName(ctx, db, "raven", "s1")
	if err != nil {
		t.Fatalf("GetPlayerByName: %v", err)
	}
	if player == nil {
		t.Fatal("target player not created")
	}
	if player.BountyValue != 500 {
		t.Errorf("BountyValue = %d, want 500", player.BountyValue)
	}
}

func TestPlaceBountyRejectsNonPositiveAmount(t *testing.T) {
	db := newTestDB(t)

	for _, amount := range []int64{0, -5} {
		if _, err := PlaceBounty(context.Background(), db, "guild1", "s1", "hunter", "raven", amount); err == nil {
			t.Errorf("PlaceBounty(%d) succeeded, want error", amount)
		}
	}
}

func TestListOpenBountiesLargestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, amount := range []int64{100, 900, 400} {
		if _, err := PlaceBounty(ctx, db, "guild1", "s1", "hunter", "raven", amount); err != nil {
			t.Fatalf("PlaceBounty: %v", err)
		}
	}

	open, err := ListOpenBounties(ctx, db, "guild1", 0)
	if err != nil {
		t.Fatalf("ListOpenBounties: %v", err)
	}
	if len(open) != 3 {
		t.Fatalf("len = %d, want 3", len(open))
	}
	if open[0].Amount != 900 || open[1].Amount != 400 || open[2].Amount != 100 {
		t.Errorf("amounts = %d, %d, %d; want 900, 400, 100",
			open[0].Amount, open[1].Amount, open[2].Amount)
	}
}

func TestClaimBountiesPaysOutAllOpen(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, amount := range []int64{300, 200} {
		if _, err := PlaceBounty(ctx, db, "guild1", "s1", "hunter", "raven", amount); err != nil {
			t.Fatalf("PlaceBounty: %v", err)
		}
	}

	payout, err := ClaimBounties(ctx, db, "guild1", "s1", "raven", "wolf")
	if err != nil {
		t.Fatalf("ClaimBounties: %v", err)
	}
	if payout != 500 {
		t.Errorf("payout = %d, want 500", payout)
	}

	open, err := ListOpenBounties(ctx, db, "guild1", 0)
	if err != nil {
		t.Fatalf("ListOpenBounties: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("open bounties after claim = %d, want 0", len(open))
	}

	claimer, err := GetPlayerByName(ctx, db, "wolf", "s1")
	if err != nil {
		t.Fatalf("GetPlayerByName: %v", err)
	}
	if claimer.BountiesClaimed != 1 {
		t.Errorf("claimer BountiesClaimed = %d, want 1", claimer.BountiesClaimed)
	}

	target, err := GetPlayerByName(ctx, db, "raven", "s1")
	if err != nil {
		t.Fatalf("GetPlayerByName: %v", err)
	}
	if target.BountyValue != 0 {
		t.Errorf("target BountyValue = %d, want 0 after payout", target.BountyValue)
	}
}

func TestClaimBountiesNoneOpen(t *testing.T) {
	db := newTestDB(t)

	payout, err := ClaimBounties(context.Background(), db, "guild1", "s1", "nobody", "wolf")
	if err != nil {
		t.Fatalf("ClaimBounties: %v", err)
	}
	if payout != 0 {
		t.Errorf("payout = %d, want 0", payout)
	}
}
