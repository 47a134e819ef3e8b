package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ideflorbio/extrativista-sheets/records"
)

func openSQLite(t *testing.T) *SQLiteSheet {
	sheet, err := OpenSQLiteSheet(context.Background(), filepath.Join(t.TempDir(), "cadastro.sqlite"))
	if err != nil {
		t.Fatalf("Unable to open SQLite worksheet (%v)", err)
	}

	t.Cleanup(func() { sheet.Close() })

	return sheet
}

func TestSQLiteSheetRoundTrip(t *testing.T) {
	sheet := openSQLite(t)
	store := New(sheet, Rewrite)

	if result := store.Fetch(context.Background()); result.Status != Empty {
		t.Fatalf("Expected empty worksheet, got %v", result.Status)
	}

	written := records.Collection{
		{Timestamp: "01/02/2026 10:11:12", Name: "Maria", CPF: "012", Products: "Cumaru, Andiroba"},
		{Timestamp: "01/02/2026 10:15:00", Name: "José", CPF: "345", WorkLocation: "Igarapé \"Água Fria\"\nmargem esquerda"},
	}

	for _, record := range written {
		if err := store.Append(context.Background(), record); err != nil {
			t.Fatalf("Unexpected error (%v)", err)
		}
	}

	result := store.Fetch(context.Background())
	if diff := cmp.Diff(written, result.Records); diff != "" {
		t.Errorf("Incorrect records (-want +got):\n%s", diff)
	}
}

func TestSQLiteSheetReplace(t *testing.T) {
	sheet := openSQLite(t)
	store := New(sheet, Rewrite)

	for _, cpf := range []string{"1", "2", "3"} {
		if err := store.Append(context.Background(), records.Record{Name: "Maria", CPF: cpf}); err != nil {
			t.Fatalf("Unexpected error (%v)", err)
		}
	}

	if err := store.Replace(context.Background(), records.Collection{{Name: "José", CPF: "9"}}); err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	result := store.Fetch(context.Background())
	if result.Len() != 1 || result.Records[0].CPF != "9" {
		t.Errorf("Incorrect records after replace %v", result.Records)
	}
}

func TestSQLiteSheetAtomicAppend(t *testing.T) {
	sheet := openSQLite(t)
	store := New(sheet, Atomic)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := store.Append(context.Background(), records.Record{Name: "Maria", CPF: string(rune('0' + i))}); err != nil {
				t.Errorf("Unexpected error (%v)", err)
			}
		}(i)
	}

	wg.Wait()

	rows, err := sheet.Read(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if len(rows) != 11 {
		t.Fatalf("Incorrect number of rows - expected:%v, got:%v", 11, len(rows))
	}

	if diff := cmp.Diff(records.Header(), rows[0]); diff != "" {
		t.Errorf("Incorrect header row (-want +got):\n%s", diff)
	}
}
