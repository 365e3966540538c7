package handlers

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/roomkit/backend/internal/models"
)

// TestParseDatesDedup проверяет разбор, дедупликацию и сортировку дат опроса.
func TestParseDatesDedup(t *testing.T) {
	dates, err := parseDates([]string{"2024-05-03", "2024-05-01", "2024-05-03"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(dates) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(dates))
	}
	if dates[0].Format(dateLayout) != "2024-05-01" || dates[1].Format(dateLayout) != "2024-05-03" {
		t.Fatalf("unexpected order: %v", dates)
	}

	if _, err := parseDates([]string{"not-a-date"}); err == nil {
		t.Fatal("expected error for invalid date")
	}
}

// TestParseVotes проверяет валидацию голосов по датам опроса.
func TestParseVotes(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	votes, err := parseVotes([]time.Time{day}, map[string]string{"2024-05-01": "yes"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if votes[day] != models.VoteChoiceYes {
		t.Fatalf("unexpected choice: %s", votes[day])
	}

	if _, err := parseVotes([]time.Time{day}, map[string]string{"2024-05-02": "yes"}); err == nil {
		t.Fatal("expected error for date outside the poll")
	}

	if _, err := parseVotes([]time.Time{day}, map[string]string{"2024-05-01": "never"}); err == nil {
		t.Fatal("expected error for unknown choice")
	}
}

// TestTallyVotes проверяет сводку голосов и выбор лучших дат.
func TestTallyVotes(t *testing.T) {
	first := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	pollID := uuid.New()

	votes := []models.PollVote{
		{PollID: pollID, VoterName: "alice", VoteDate: first, Choice: models.VoteChoiceYes},
		{PollID: pollID, VoterName: "bob", VoteDate: first, Choice: models.VoteChoiceMaybe},
		{PollID: pollID, VoterName: "alice", VoteDate: second, Choice: models.VoteChoiceYes},
		{PollID: pollID, VoterName: "bob", VoteDate: second, Choice: models.VoteChoiceNo},
	}

	tally, best := tallyVotes([]time.Time{first, second}, votes)

	if len(tally) != 2 {
		t.Fatalf("expected 2 tally rows, got %d", len(tally))
	}
	if tally[0].Yes != 1 || tally[0].Maybe != 1 || tally[0].No != 0 {
		t.Fatalf("unexpected tally for first date: %+v", tally[0])
	}
	if tally[1].Yes != 1 || tally[1].Maybe != 0 || tally[1].No != 1 {
		t.Fatalf("unexpected tally for second date: %+v", tally[1])
	}

	// Одинаковое число "да" — решает число "возможно".
	if len(best) != 1 || best[0] != "2024-05-01" {
		t.Fatalf("unexpected best dates: %v", best)
	}
}

// TestTallyVotesEmpty проверяет, что без голосов лучших дат нет.
func TestTallyVotesEmpty(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tally, best := tallyVotes([]time.Time{day}, nil)

	if len(tally) != 1 {
		t.Fatalf("expected 1 tally row, got %d", len(tally))
	}
	if len(best) != 0 {
		t.Fatalf("expected no best dates, got %v", best)
	}
}
