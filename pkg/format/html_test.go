package format

import (
	"strings"
	"testing"
	"time"

	"github.com/quantifiedbob/basis-export/pkg/basis"
)

func TestHTMLMetricsDocument(t *testing.T) {
	payload, records := metricsPayload(t)
	out, err := (HTML{}).Serialize(payload, records)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	doc := string(out)

	for _, want := range []string{
		"<h3>Summary</h3>",
		"<h3>Body States</h3>",
		"<strong>Heart Rate</strong>",
		"<strong>GSR</strong>",
		">181<", // per-minute max straight from raw aggregates
		">light_activity<",
		"<th scope=\"col\">Reading</th>",
		"<th scope=\"col\">Heartrate</th>",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("metrics document missing %q", want)
		}
	}

	// The null heart-rate sample renders as a literal null cell.
	if !strings.Contains(doc, "<td>null</td>") {
		t.Error("metrics document has no null marker for absent samples")
	}
	if rows := strings.Count(doc, "<tr>"); rows != 1+6+1+1+1+3 {
		// summary header + 6 channels, body-state header + 1 interval,
		// readings header + 3 samples
		t.Errorf("document has %d rows, want 13", rows)
	}
}

func TestHTMLSleepDocument(t *testing.T) {
	payload, records := sleepPayload(t)
	out, err := (HTML{}).Serialize(payload, records)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	doc := string(out)

	if strings.Contains(doc, "<h3>Summary</h3>") {
		t.Error("sleep document must not contain the metrics summary table")
	}
	wantTitle := "My Sleep Data for " + time.Unix(1396238460, 0).Format("2006-01-02")
	if !strings.Contains(doc, wantTitle) {
		t.Errorf("sleep document missing %q", wantTitle)
	}
	// Episode without heart-rate stats renders dash markers.
	if !strings.Contains(doc, "<td>-</td>") {
		t.Error("sleep document has no dash marker for absent stats")
	}
	if !strings.Contains(doc, "<td>a1</td>") {
		t.Error("sleep document missing first episode id")
	}
	if rows := strings.Count(doc, "<tr>"); rows != 1+2 {
		t.Errorf("document has %d rows, want 3", rows)
	}
}

func TestHTMLEscapesEpisodeFields(t *testing.T) {
	payload, _ := sleepPayload(t)
	records := []basis.Record{
		{"id": basis.Value{Raw: "<script>alert(1)</script>", Present: true}},
	}
	out, err := (HTML{}).Serialize(payload, records)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if strings.Contains(string(out), "<script>alert(1)</script>") {
		t.Fatal("episode field rendered unescaped")
	}
}
