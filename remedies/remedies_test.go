package remedies

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDataset(t *testing.T, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Home Remedies.csv")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write dataset file: %v", err)
	}
	return path
}

func TestLoadDataset_Valid(t *testing.T) {
	path := writeDataset(t, []byte(
		"Health Issue,Home Remedy,Yogasan\n"+
			"Cold,Drink warm ginger tea with honey,https://example.com/pranayama\n"+
			"Headache,Apply peppermint oil to the temples,\n"))

	records, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	if records[0].HealthIssue != "Cold" {
		t.Errorf("Expected health issue 'Cold', got %q", records[0].HealthIssue)
	}
	if records[0].Yoga != "https://example.com/pranayama" {
		t.Errorf("Expected yoga link to be kept, got %q", records[0].Yoga)
	}
	if records[1].Yoga != "" {
		t.Errorf("Expected empty yoga cell, got %q", records[1].Yoga)
	}
}

func TestLoadDataset_SkipsIncompleteRows(t *testing.T) {
	path := writeDataset(t, []byte(
		"Health Issue,Home Remedy,Yogasan\n"+
			",Missing issue remedy,\n"+
			"Missing remedy,,\n"+
			"Fever,Sponge with lukewarm water,\n"))

	records, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Expected 1 usable record, got %d", len(records))
	}
	if records[0].HealthIssue != "Fever" {
		t.Errorf("Expected remaining record 'Fever', got %q", records[0].HealthIssue)
	}
}

func TestLoadDataset_Latin1Fallback(t *testing.T) {
	// 0xE9 is é in Latin-1 and invalid as a standalone UTF-8 byte.
	content := []byte("Health Issue,Home Remedy,Yogasan\nMigraine,Drink caf\xe9-free herbal tea,\n")
	path := writeDataset(t, content)

	records, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset failed on Latin-1 file: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Remedy != "Drink café-free herbal tea" {
		t.Errorf("Expected Latin-1 byte decoded to é, got %q", records[0].Remedy)
	}
}

func TestLoadDataset_UTF8BOM(t *testing.T) {
	content := append([]byte("\xef\xbb\xbf"), []byte(
		"Health Issue,Home Remedy,Yogasan\nCold,Drink warm fluids,\n")...)
	path := writeDataset(t, content)

	records, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset failed on BOM file: %v", err)
	}
	if records[0].HealthIssue != "Cold" {
		t.Errorf("Expected BOM to be stripped from header, got issue %q", records[0].HealthIssue)
	}
}

func TestLoadDataset_MissingColumns(t *testing.T) {
	path := writeDataset(t, []byte("Disease,Cure\nCold,Tea\n"))

	if _, err := LoadDataset(path); err == nil {
		t.Error("Expected error for dataset without required columns")
	}
}

func TestLoadDataset_EmptyDataset(t *testing.T) {
	path := writeDataset(t, []byte("Health Issue,Home Remedy,Yogasan\n"))

	if _, err := LoadDataset(path); err == nil {
		t.Error("Expected error for dataset with no rows")
	}
}

func TestLoadDataset_MissingFile(t *testing.T) {
	if _, err := LoadDataset(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("Expected error for missing dataset file")
	}
}

func TestLoadDataset_RaggedRows(t *testing.T) {
	path := writeDataset(t, []byte(
		"Health Issue,Home Remedy,Yogasan\n" +
			"Cold,Drink warm fluids\n" + // short row, yoga column absent
			"Cough,Mix honey with warm water,link,extra\n")) // long row

	records, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset failed on ragged rows: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records from ragged rows, got %d", len(records))
	}
	if records[0].Yoga != "" {
		t.Errorf("Expected missing yoga cell as empty, got %q", records[0].Yoga)
	}
}
