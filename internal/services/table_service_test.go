package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"doctab/internal/core"
	"doctab/internal/tables/memory"
	"doctab/internal/views"
)

type fakePublisher struct {
	published []string
	err       error
}

func (p *fakePublisher) PublishTableSync(_ context.Context, tableID, _ string) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, tableID)
	return nil
}

func sampleTable(id string) core.Table {
	return core.Table{
		ID:         id,
		DocumentID: "doc1",
		Name:       "מאזן",
		Page:       1,
		Header:     []string{"סעיף", "2023"},
		Rows:       [][]string{{"הכנסות", "100"}, {"הוצאות", "60"}},
	}
}

func TestIngestTablePublishesSync(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewTableService(memory.New(false), pub)

	if err := svc.IngestTable(context.Background(), sampleTable("t1")); err != nil {
		t.Fatalf("IngestTable: %v", err)
	}

	if len(pub.published) != 1 || pub.published[0] != "t1" {
		t.Errorf("published = %v, want [t1]", pub.published)
	}

	got, err := svc.GetTable(context.Background(), "t1")
	if err != nil {
		t.Fatalf("GetTable: %v", err)
	}
	if got.Name != "מאזן" {
		t.Errorf("Name = %q", got.Name)
	}
}

func TestIngestTablePublishFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewTableService(memory.New(false), pub)

	if err := svc.IngestTable(context.Background(), sampleTable("t1")); err != nil {
		t.Fatalf("IngestTable should succeed when publish fails: %v", err)
	}
}

func TestIngestTableWithoutPublisher(t *testing.T) {
	svc := NewTableService(memory.New(false), nil)

	if err := svc.IngestTable(context.Background(), sampleTable("t1")); err != nil {
		t.Fatalf("IngestTable: %v", err)
	}
}

func TestIngestTableInvalid(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewTableService(memory.New(false), pub)

	bad := sampleTable("t1")
	bad.DocumentID = ""
	if err := svc.IngestTable(context.Background(), bad); err == nil {
		t.Fatal("expected validation error")
	}
	if len(pub.published) != 0 {
		t.Error("must not publish when save fails")
	}
}

func TestGenerateView(t *testing.T) {
	svc := NewTableService(memory.New(false), nil)
	ctx := context.Background()

	if err := svc.IngestTable(ctx, sampleTable("t1")); err != nil {
		t.Fatalf("IngestTable: %v", err)
	}

	v, err := svc.GenerateView(ctx, []string{"t1"}, core.FormatSummary, views.Options{})
	if err != nil {
		t.Fatalf("GenerateView: %v", err)
	}

	sv, ok := v.(core.SummaryView)
	if !ok {
		t.Fatalf("view type = %T, want SummaryView", v)
	}
	if len(sv.Metrics) != 2 {
		t.Errorf("metrics = %d, want 2", len(sv.Metrics))
	}
}

func TestExportTable(t *testing.T) {
	svc := NewTableService(memory.New(false), nil)
	ctx := context.Background()

	if err := svc.IngestTable(ctx, sampleTable("t1")); err != nil {
		t.Fatalf("IngestTable: %v", err)
	}

	data, err := svc.ExportTable(ctx, "t1", core.ExportCSV)
	if err != nil {
		t.Fatalf("ExportTable: %v", err)
	}
	if !strings.HasPrefix(string(data), `"סעיף","2023"`) {
		t.Errorf("csv = %q", string(data))
	}

	if _, err := svc.ExportTable(ctx, "missing", core.ExportCSV); !errors.Is(err, core.ErrTableNotFound) {
		t.Errorf("err = %v, want ErrTableNotFound", err)
	}
}

func TestCloseWithNilComponents(t *testing.T) {
	svc := NewTableService(memory.New(false), nil)
	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
