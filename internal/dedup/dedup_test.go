package dedup_test

import (
	"testing"

	"github.com/richrz/JobScout-sub000/internal/dedup"
	"github.com/richrz/JobScout-sub000/internal/model"
)

func listings(titles ...string) []model.RawListing {
	out := make([]model.RawListing, 0, len(titles))
	for i, title := range titles {
		out = append(out, model.RawListing{
			Title:     title,
			Company:   "Acme",
			SourceURL: "https://jobs.example.com/" + string(rune('a'+i)),
		})
	}
	return out
}

// ── Basic behaviour ────────────────────────────────────────────────────────

func TestDedupe_IdenticalTitles(t *testing.T) {
	in := listings("Backend Developer", "Backend Developer", "Backend Developer")

	unique := dedup.Dedupe(in, 0.3)
	if len(unique) != 1 {
		t.Fatalf("Dedupe() kept %d listings, want 1", len(unique))
	}
	if unique[0].SourceURL != in[0].SourceURL {
		t.Errorf("Dedupe() kept %q, want the first occurrence", unique[0].SourceURL)
	}

	dups := dedup.FindDuplicates(in, 0.3)
	if len(dups) != 2 {
		t.Fatalf("FindDuplicates() flagged %d listings, want 2", len(dups))
	}
	if dups[0].SourceURL != in[1].SourceURL || dups[1].SourceURL != in[2].SourceURL {
		t.Errorf("FindDuplicates() flagged wrong listings: %v", dups)
	}
}

func TestDedupe_NearDuplicates(t *testing.T) {
	in := listings("Senior Backend Developer", "Senior Backend Develope", "Data Scientist")

	unique := dedup.Dedupe(in, 0.3)
	if len(unique) != 2 {
		t.Fatalf("Dedupe() kept %d listings, want 2: %v", len(unique), unique)
	}
	if unique[0].Title != "Senior Backend Developer" || unique[1].Title != "Data Scientist" {
		t.Errorf("Dedupe() kept wrong titles: %v", unique)
	}
}

func TestDedupe_EmptyInput(t *testing.T) {
	if got := dedup.Dedupe(nil, 0.3); len(got) != 0 {
		t.Errorf("Dedupe(nil) = %v, want empty", got)
	}
	if got := dedup.FindDuplicates(nil, 0.3); len(got) != 0 {
		t.Errorf("FindDuplicates(nil) = %v, want empty", got)
	}
}

// ── Threshold semantics ────────────────────────────────────────────────────

func TestDedupe_ThresholdZeroIsExactMatchOnly(t *testing.T) {
	in := listings("Backend Developer", "Backend Developer", "Backend Develope")

	unique := dedup.Dedupe(in, 0)
	if len(unique) != 2 {
		t.Fatalf("threshold 0 kept %d, want 2 (only the exact repeat dropped)", len(unique))
	}
}

func TestDedupe_ThresholdOneMatchesEverything(t *testing.T) {
	in := listings("Backend Developer", "Pastry Chef", "Marine Biologist")

	unique := dedup.Dedupe(in, 1)
	if len(unique) != 1 {
		t.Fatalf("threshold 1 kept %d, want 1", len(unique))
	}
	if unique[0].Title != "Backend Developer" {
		t.Errorf("threshold 1 should keep the first listing, kept %q", unique[0].Title)
	}
}

func TestDedupe_TitleCaseAndWhitespaceInsensitive(t *testing.T) {
	in := listings("Backend  Developer", "backend developer")
	if got := dedup.Dedupe(in, 0); len(got) != 1 {
		t.Errorf("case/whitespace variants should be exact matches, kept %d", len(got))
	}
}

// ── Invariants ─────────────────────────────────────────────────────────────

func TestDedupe_Idempotent(t *testing.T) {
	in := listings(
		"Backend Developer", "Backend Developer", "Frontend Developer",
		"Frontend Develope", "DevOps Engineer",
	)

	once := dedup.Dedupe(in, 0.3)
	twice := dedup.Dedupe(once, 0.3)
	if len(once) != len(twice) {
		t.Fatalf("dedupe not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].SourceURL != twice[i].SourceURL {
			t.Errorf("dedupe(dedupe(L))[%d] = %q, want %q", i, twice[i].SourceURL, once[i].SourceURL)
		}
	}
}

func TestFindDuplicates_FirstOccurrenceNeverFlagged(t *testing.T) {
	in := listings("Go Engineer", "Go Engineer", "Go Engineer", "Rust Engineer", "Rust Engineer")

	dups := dedup.FindDuplicates(in, 0.3)
	for _, d := range dups {
		if d.SourceURL == in[0].SourceURL || d.SourceURL == in[3].SourceURL {
			t.Errorf("first occurrence %q must never be flagged", d.SourceURL)
		}
	}
	if len(dups) != 3 {
		t.Errorf("flagged %d, want 3", len(dups))
	}
}

func TestDedupe_PartitionIsComplete(t *testing.T) {
	in := listings("A Engineer", "A Engineer", "B Engineer", "C Engineer", "C Engineer")

	unique := dedup.Dedupe(in, 0.2)
	dups := dedup.FindDuplicates(in, 0.2)
	if len(unique)+len(dups) != len(in) {
		t.Errorf("unique (%d) + duplicates (%d) != input (%d)", len(unique), len(dups), len(in))
	}
}

func TestDedupe_InputNotModified(t *testing.T) {
	in := listings("Backend Developer", "Backend Developer")
	dedup.Dedupe(in, 0.3)
	if in[0].Title != "Backend Developer" || in[1].Title != "Backend Developer" {
		t.Error("Dedupe must not mutate its input")
	}
}
