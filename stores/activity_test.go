package stores

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"scholar-pulse/models"
	"scholar-pulse/testutil"
)

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("seed %T: %v", value, err)
	}
}

func TestOccurredCounterPeriodFilter(t *testing.T) {
	db := testutil.OpenTestDB(t)
	counter := NewActivityStores(db).Counter(models.CategoryConference)
	ctx := context.Background()

	for _, date := range []time.Time{
		time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.November, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
	} {
		conf := models.Conference{OccurredAt: date}
		conf.OwnerID = 1
		mustCreate(t, db, &conf)
	}
	// Fremde Owner zählen nie mit.
	other := models.Conference{OccurredAt: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)}
	other.OwnerID = 2
	mustCreate(t, db, &other)

	cases := []struct {
		p    Period
		want int64
	}{
		{Period{}, 3},
		{Period{Year: 2024}, 2},
		{Period{Year: 2024, Month: time.March}, 1},
		{Period{Year: 2023}, 0},
	}
	for _, tc := range cases {
		got, err := counter.CountInRange(ctx, 1, tc.p)
		if err != nil {
			t.Fatalf("CountInRange(%+v): %v", tc.p, err)
		}
		if got != tc.want {
			t.Fatalf("CountInRange(%+v) = %d, want %d", tc.p, got, tc.want)
		}
	}
}

func TestResearchCounterPublishMonthException(t *testing.T) {
	db := testutil.OpenTestDB(t)
	counter := NewActivityStores(db).Counter(models.CategoryResearch)
	ctx := context.Background()

	// Angelegt 2024, aber publiziert Mai 2023: der Monatsfilter muss über
	// publish_year/publish_month laufen, der Jahresfilter über created_at.
	research := models.Research{
		Published:    true,
		PublishYear:  2023,
		PublishMonth: 5,
	}
	research.OwnerID = 1
	research.CreatedAt = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	mustCreate(t, db, &research)

	cases := []struct {
		p    Period
		want int64
	}{
		{Period{}, 1},
		{Period{Year: 2024}, 1},
		{Period{Year: 2023}, 0},
		{Period{Year: 2023, Month: time.May}, 1},
		{Period{Year: 2024, Month: time.June}, 0},
	}
	for _, tc := range cases {
		got, err := counter.CountInRange(ctx, 1, tc.p)
		if err != nil {
			t.Fatalf("CountInRange(%+v): %v", tc.p, err)
		}
		if got != tc.want {
			t.Fatalf("CountInRange(%+v) = %d, want %d", tc.p, got, tc.want)
		}
	}
}

func TestOpenEndedCounterCountsRunningActivities(t *testing.T) {
	db := testutil.OpenTestDB(t)
	counter := NewActivityStores(db).Counter(models.CategoryJournal)
	ctx := context.Background()

	old := models.Journal{}
	old.OwnerID = 1
	old.StartedAt = time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC)
	mustCreate(t, db, &old)

	future := models.Journal{}
	future.OwnerID = 1
	future.StartedAt = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	mustCreate(t, db, &future)

	// Eine 2023 begonnene Mitgliedschaft läuft 2025 weiter und zählt mit;
	// eine erst 2026 beginnende nicht.
	got, err := counter.CountInRange(ctx, 1, Period{Year: 2025})
	if err != nil {
		t.Fatalf("CountInRange: %v", err)
	}
	if got != 1 {
		t.Fatalf("CountInRange(2025) = %d, want 1", got)
	}

	got, err = counter.CountInRange(ctx, 1, Period{})
	if err != nil {
		t.Fatalf("CountInRange: %v", err)
	}
	if got != 2 {
		t.Fatalf("CountInRange(all) = %d, want 2", got)
	}
}
