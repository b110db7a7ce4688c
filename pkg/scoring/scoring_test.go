package scoring

import (
	"os"
	"testing"
	"time"

	"github.com/dtnitsch/llm-product-parser/models"
	"github.com/dtnitsch/llm-product-parser/pkg/parser"
)

func TestBandFor(t *testing.T) {
	tests := []struct {
		pct  float64
		want models.Band
	}{
		{100, models.BandExcellent},
		{85, models.BandExcellent},
		{84.99, models.BandGood},
		{70, models.BandGood},
		{69.99, models.BandFair},
		{50, models.BandFair},
		{30, models.BandPoor},
		{29.99, models.BandCritical},
		{0, models.BandCritical},
	}
	for _, tt := range tests {
		if got := BandFor(tt.pct); got != tt.want {
			t.Errorf("BandFor(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		final, max int
		want       float64
	}{
		{0, 100, 0},
		{85, 100, 85},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := Percentage(tt.final, tt.max); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %v, want %v", tt.final, tt.max, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(27, MaxSchema); got != MaxSchema {
		t.Errorf("clamp(27, 20) = %d, want 20", got)
	}
	if got := clamp(12, MaxSchema); got != 12 {
		t.Errorf("clamp(12, 20) = %d, want 12", got)
	}
	if got := clamp(-3, MaxSchema); got != 0 {
		t.Errorf("clamp(-3, 20) = %d, want 0", got)
	}
}

func TestScore_EmptySnapshot(t *testing.T) {
	r := Score(&models.PageSnapshot{})

	want := models.Penalties{
		MissingPrice:       PenaltyMissingPrice,
		MissingProductName: PenaltyMissingProductName,
		NoSchemaMarkup:     PenaltyNoSchemaMarkup,
		ThinContent:        PenaltyThinContent,
	}
	if r.Penalties != want {
		t.Errorf("Penalties = %+v, want %+v", r.Penalties, want)
	}
	if r.PenaltyTotal != -28 {
		t.Errorf("PenaltyTotal = %d, want -28", r.PenaltyTotal)
	}
	if r.RawScore != 0 || r.FinalScore != 0 {
		t.Errorf("raw=%d final=%d, want both 0", r.RawScore, r.FinalScore)
	}
	if r.ReadinessBand != models.BandCritical || r.ReadinessPct != 0 {
		t.Errorf("band=%q pct=%v", r.ReadinessBand, r.ReadinessPct)
	}
	if r.Breakdowns.Entity.NameQuality != nil {
		t.Error("name_quality should be absent without a name")
	}
	if r.MaxPossible != 100 {
		t.Errorf("MaxPossible = %d, want 100", r.MaxPossible)
	}
}

func TestScore_FinalScoreFloor(t *testing.T) {
	snap := &models.PageSnapshot{
		TrustSignals: models.TrustSignals{UsesHTTPS: true, HasContactPage: true},
	}
	r := Score(snap)
	if r.RawScore != 3 {
		t.Fatalf("RawScore = %d, want 3", r.RawScore)
	}
	if r.FinalScore != 0 {
		t.Errorf("FinalScore = %d, want 0 after penalties", r.FinalScore)
	}
}

func TestScore_Tiers(t *testing.T) {
	tests := []struct {
		name  string
		words int
		want  int
	}{
		{"exactly 150", 150, 0},
		{"151", 151, 2},
		{"401", 401, 4},
		{"800", 800, 4},
		{"801", 801, 6},
		{"1501", 1501, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := contentBreakdown(models.ContentBlock{WordCount: tt.words})
			if b.WordCount != tt.want {
				t.Errorf("word_count points = %d, want %d", b.WordCount, tt.want)
			}
		})
	}

	if q := nameQuality("Mouse"); q != 0 {
		t.Errorf("nameQuality(1 word) = %d", q)
	}
	if q := nameQuality("Wireless Mouse"); q != 1 {
		t.Errorf("nameQuality(2 words) = %d", q)
	}
	if q := nameQuality("Acme Wireless Mouse X200"); q != 2 {
		t.Errorf("nameQuality(4 words) = %d", q)
	}
}

func TestScore_PriceFormatBonus(t *testing.T) {
	tests := []struct {
		price *models.Scalar
		want  int
	}{
		{models.NumberScalar("1999"), 2},
		{models.StringScalar("19.99"), 2},
		{models.StringScalar("19.999"), 0},
		{models.StringScalar("₹2,499.00"), 0},
		{nil, 0},
	}
	for _, tt := range tests {
		snap := &models.PageSnapshot{Product: models.ProductRecord{Price: tt.price}}
		if got := schemaBreakdown(snap).PriceFormatBonus; got != tt.want {
			t.Errorf("price %v: bonus = %d, want %d", tt.price, got, tt.want)
		}
	}
}

func TestScore_NilMetaScoresZero(t *testing.T) {
	snap := &models.PageSnapshot{
		Content: models.ContentBlock{Headings: []models.Heading{{Level: "h2", Text: "Specs"}}},
	}
	b := extractabilityBreakdown(snap)
	if b.MetaTitle != 0 || b.MetaDescription != 0 || b.CanonicalURL != 0 || b.Hreflang != 0 {
		t.Errorf("meta signals should be zero without a side-channel: %+v", b)
	}
	if b.HeadingHierarchy != 1 {
		t.Errorf("HeadingHierarchy = %d, want 1 with an h2 but no h1", b.HeadingHierarchy)
	}
}

func TestScore_WirelessMouse(t *testing.T) {
	html, err := os.ReadFile("../parser/testdata/wireless_mouse.html")
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	p := &parser.Parser{}
	snap, err := p.Parse(models.ParseRequest{
		URL:        "https://shop.example.com/p/wireless-mouse-x200",
		HTML:       string(html),
		StatusCode: 200,
		CrawledAt:  time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	r := Score(snap)
	if r.SchemaScore < 16 {
		t.Errorf("SchemaScore = %d, want at least 16", r.SchemaScore)
	}
	if r.Breakdowns.Trust.HasReturnPolicy != 3 {
		t.Errorf("has_return_policy = %d, want 3", r.Breakdowns.Trust.HasReturnPolicy)
	}
	if r.ReadinessPct < 70 {
		t.Errorf("ReadinessPct = %v, want band Good or better", r.ReadinessPct)
	}
	if r.Penalties.Applied() != nil {
		t.Errorf("unexpected penalties: %+v", r.Penalties.Applied())
	}

	for _, s := range models.Sections {
		score := r.SectionScore(s)
		if score < 0 || score > models.SumSignals(r.Breakdowns.Section(s)) {
			t.Errorf("%s score %d outside [0, breakdown sum]", s, score)
		}
	}
}
