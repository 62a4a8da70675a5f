package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ItIsUday/artron/internal/model"
	"github.com/ItIsUday/artron/internal/resolve"
)

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func testManifest(t *testing.T) Manifest {
	t.Helper()
	r := model.NewResolution()
	r.Add("12345678", 7, 8)
	r.Dropped = []string{"999"}
	jobs, err := resolve.Plan(r)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	return Manifest{RunID: "run-test", Resolution: r, Jobs: jobs}
}

func TestWriteJSONL_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONL(&buf, Manifest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (header only), got %d", len(lines))
	}

	var h Header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != Version || h.Type != TypeHeader || h.JobCount != 0 || h.DroppedCount != 0 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestWriteJSONL_JobsAndDropped(t *testing.T) {
	m := testManifest(t)
	var buf bytes.Buffer
	if err := WriteJSONL(&buf, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	// 1 header + 2 jobs + 1 dropped
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}

	var h Header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.RunID != "run-test" || h.TargetCount != 1 || h.JobCount != 2 || h.DroppedCount != 1 {
		t.Fatalf("unexpected header: %+v", h)
	}

	var job struct {
		Type string      `json:"type"`
		Data resolve.Job `json:"data"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &job); err != nil {
		t.Fatalf("unmarshal job: %v", err)
	}
	if job.Type != TypeJob || job.Data.TargetID != "12345678" || job.Data.Epoch != 7 {
		t.Errorf("unexpected first job: %+v", job)
	}
	if job.Data.Identifier != m.Jobs[0].Identifier {
		t.Errorf("identifier = %q, want %q", job.Data.Identifier, m.Jobs[0].Identifier)
	}
	if strings.Contains(lines[1], `\u003e`) || strings.Contains(lines[1], `\u0026`) {
		t.Errorf("HTML escaping should be disabled: %s", lines[1])
	}

	var dropped struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal([]byte(lines[3]), &dropped); err != nil {
		t.Fatalf("unmarshal dropped: %v", err)
	}
	if dropped.Type != TypeDropped || dropped.Data["target_id"] != "999" {
		t.Errorf("unexpected dropped record: %+v", dropped)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestWriteJSONL_WriterError(t *testing.T) {
	if err := WriteJSONL(failingWriter{}, Manifest{}); !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("expected io.ErrClosedPipe, got %v", err)
	}
}

// mockDestination records calls to Write.
type mockDestination struct {
	name   string
	writes int
	last   []byte
	err    error
}

func (d *mockDestination) Write(_ context.Context, data []byte) error {
	d.writes++
	d.last = append([]byte(nil), data...)
	return d.err
}

func (d *mockDestination) String() string { return d.name }

func TestDeliver(t *testing.T) {
	data, err := Marshal(testManifest(t))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	ok := &mockDestination{name: "ok"}
	bad := &mockDestination{name: "bad", err: errors.New("boom")}
	after := &mockDestination{name: "after"}

	err = Deliver(context.Background(), data, ok, bad, after)
	if err == nil || !strings.Contains(err.Error(), "bad: boom") {
		t.Fatalf("expected joined error naming bad destination, got %v", err)
	}
	if ok.writes != 1 || after.writes != 1 {
		t.Errorf("every destination should be written: ok=%d after=%d", ok.writes, after.writes)
	}
	if !bytes.Equal(after.last, data) {
		t.Error("destination received different payload")
	}
}

func TestWriterDestination(t *testing.T) {
	var buf bytes.Buffer
	d := &WriterDestination{W: &buf}
	if err := d.Write(context.Background(), []byte("line\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != "line\n" {
		t.Errorf("got %q", buf.String())
	}
	if d.String() != "writer" {
		t.Errorf("String() = %q", d.String())
	}
}

func TestFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "plan.jsonl")
	d := &FileDestination{Path: path}

	for _, payload := range []string{"first\n", "second\n"} {
		if err := d.Write(context.Background(), []byte(payload)); err != nil {
			t.Fatalf("Write: %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if string(got) != payload {
			t.Errorf("file = %q, want %q", got, payload)
		}
	}
}

type fakeS3 struct {
	in  *s3.PutObjectInput
	err error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Destination(t *testing.T) {
	fake := &fakeS3{}
	d := &S3Destination{client: fake, bucket: "plans", key: "artron/plan.jsonl"}

	if err := d.Write(context.Background(), []byte("x\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if *fake.in.Bucket != "plans" || *fake.in.Key != "artron/plan.jsonl" {
		t.Errorf("unexpected target: %s/%s", *fake.in.Bucket, *fake.in.Key)
	}
	if *fake.in.ContentType != "application/x-ndjson" {
		t.Errorf("content type = %q", *fake.in.ContentType)
	}
	if d.String() != "s3://plans/artron/plan.jsonl" {
		t.Errorf("String() = %q", d.String())
	}

	fake.err = errors.New("denied")
	if err := d.Write(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseS3URL(t *testing.T) {
	for _, tc := range []struct {
		in         string
		bucket     string
		key        string
		wantParsed bool
	}{
		{"s3://plans/artron/plan.jsonl", "plans", "artron/plan.jsonl", true},
		{"s3://plans/x", "plans", "x", true},
		{"s3://plans", "", "", false},
		{"s3://plans/", "", "", false},
		{"s3:///key", "", "", false},
		{"plan.jsonl", "", "", false},
	} {
		bucket, key, ok := ParseS3URL(tc.in)
		if ok != tc.wantParsed || bucket != tc.bucket || key != tc.key {
			t.Errorf("ParseS3URL(%q) = %q, %q, %v", tc.in, bucket, key, ok)
		}
	}
}
