package domain

import "testing"

func TestFindDuplicates_ExactMatch(t *testing.T) {
	items := []ScanItem{
		{Name: "Rifle", SerialNumber: "M4-88271", Quantity: 1},
	}
	existing := []string{"M4-88271", "M4-99999"}

	flags := FindDuplicates(items, existing, 0.8)

	if len(flags) != 1 {
		t.Fatalf("expected 1 flag, got %d", len(flags))
	}
	if !flags[0].Exact {
		t.Error("expected exact flag")
	}
	if flags[0].MatchedTo != "M4-88271" {
		t.Errorf("MatchedTo = %q", flags[0].MatchedTo)
	}
	if flags[0].InBatch {
		t.Error("match is against existing serials, not the batch")
	}
}

func TestFindDuplicates_CaseInsensitiveExact(t *testing.T) {
	items := []ScanItem{
		{Name: "Rifle", SerialNumber: "m4-88271", Quantity: 1},
	}
	existing := []string{"M4-88271"}

	flags := FindDuplicates(items, existing, 0.8)

	if len(flags) != 1 || !flags[0].Exact {
		t.Fatalf("expected one exact flag, got %+v", flags)
	}
}

func TestFindDuplicates_OneCharacterOff(t *testing.T) {
	items := []ScanItem{
		{Name: "Rifle", SerialNumber: "M4-88272", Quantity: 1},
	}
	existing := []string{"M4-88271"}

	flags := FindDuplicates(items, existing, 0.8)

	if len(flags) != 1 {
		t.Fatalf("expected 1 flag, got %d", len(flags))
	}
	if flags[0].Exact {
		t.Error("one character off should not be exact")
	}
	if flags[0].Similarity <= 0.8 {
		t.Errorf("Similarity = %f, want > 0.8", flags[0].Similarity)
	}
}

func TestFindDuplicates_WithinBatch(t *testing.T) {
	items := []ScanItem{
		{Name: "Radio A", SerialNumber: "RC-55501", Quantity: 1},
		{Name: "Radio B", SerialNumber: "RC-55502", Quantity: 1},
	}

	flags := FindDuplicates(items, nil, 0.8)

	if len(flags) != 1 {
		t.Fatalf("expected 1 flag, got %d", len(flags))
	}
	if !flags[0].InBatch {
		t.Error("expected in-batch flag")
	}
	if flags[0].ItemIndex != 1 {
		t.Errorf("ItemIndex = %d, want 1 (later item flags against earlier)", flags[0].ItemIndex)
	}
}

func TestFindDuplicates_UnrelatedSerialsPass(t *testing.T) {
	items := []ScanItem{
		{Name: "Rifle", SerialNumber: "M4-88271", Quantity: 1},
		{Name: "Compass", SerialNumber: "CMP-0017", Quantity: 1},
	}
	existing := []string{"NVG-44choice", "HMMWV-2200"}

	flags := FindDuplicates(items, existing, 0.8)

	if len(flags) != 0 {
		t.Errorf("expected no flags, got %+v", flags)
	}
}

func TestFindDuplicates_EmptySerialSkipped(t *testing.T) {
	items := []ScanItem{
		{Name: "Unknown", SerialNumber: "", Quantity: 1},
		{Name: "Also Unknown", SerialNumber: "  ", Quantity: 1},
	}
	existing := []string{""}

	flags := FindDuplicates(items, existing, 0.8)

	if len(flags) != 0 {
		t.Errorf("blank serials should never flag, got %+v", flags)
	}
}

func TestFindDuplicates_PicksStrongestMatch(t *testing.T) {
	items := []ScanItem{
		{Name: "Rifle", SerialNumber: "M4-882711", Quantity: 1},
	}
	// Both are near misses; the single-substitution one is closer
	existing := []string{"M4-882700", "M4-882712"}

	flags := FindDuplicates(items, existing, 0.8)

	if len(flags) != 1 {
		t.Fatalf("expected 1 flag, got %d", len(flags))
	}
	if flags[0].MatchedTo != "M4-882712" {
		t.Errorf("MatchedTo = %q, want the closest candidate", flags[0].MatchedTo)
	}
}
