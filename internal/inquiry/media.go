package inquiry

// Category is the coarse media bucket a detail source belongs to.
type Category string

const (
	CategoryExcluded       Category = "excluded"
	CategoryHomeAndPaidAds Category = "home_and_paid_ads"
	CategoryViral          Category = "viral"
	CategoryOther          Category = "other"
)

// ReportedCategories lists the categories shown on the dashboard, in display order.
var ReportedCategories = []Category{CategoryHomeAndPaidAds, CategoryViral, CategoryOther}

// MediaTables is the canonical detail-source taxonomy. Staff maintain it, so it
// can be replaced from config; lookups always run Excluded, HomeAndPaidAds,
// Viral, Other regardless of how the tables were loaded.
type MediaTables struct {
	Version         string   `yaml:"version" json:"version"`
	Excluded        []string `yaml:"excluded" json:"excluded"`
	HomeAndPaidAds  []string `yaml:"home_and_paid_ads" json:"homeAndPaidAds"`
	Viral           []string `yaml:"viral" json:"viral"`
	Other           []string `yaml:"other" json:"other"`
	HardExcluded    []string `yaml:"hard_excluded" json:"hardExcluded"`       // removed from every count
	MergeCandidates []string `yaml:"merge_candidates" json:"mergeCandidates"` // deduplicated by phone per month
}

// DefaultMediaTables is the taxonomy in use when config does not override it.
var DefaultMediaTables = MediaTables{
	Version: "2025.12",
	Excluded: []string{
		"기존고객",
		"영업/광고전화",
		"오접수",
		"테스트",
	},
	HomeAndPaidAds: []string{
		"홈페이지",
		"홈페이지 상담신청",
		"네이버 파워링크",
		"네이버 브랜드검색",
		"구글 광고",
		"카카오 광고",
		"메타 광고",
	},
	Viral: []string{
		"네이버 블로그",
		"네이버 카페",
		"네이버 지식인",
		"유튜브",
		"인스타그램",
		"언론보도",
	},
	Other: []string{
		"지인소개",
		"리마인드CRM",
		"재문의",
		"방문",
		"기타",
	},
	HardExcluded: []string{
		"기존고객",
		"영업/광고전화",
		"오접수",
	},
	MergeCandidates: []string{
		"리마인드CRM",
		"재문의",
	},
}

// MediaClassifier maps detail sources to categories using one MediaTables value.
type MediaClassifier struct {
	tables   MediaTables
	priority []categorySet
	hard     map[string]bool
	merge    map[string]bool
}

type categorySet struct {
	category Category
	members  map[string]bool
}

// NewMediaClassifier builds a classifier over the given tables. Empty tables
// fall back to DefaultMediaTables.
func NewMediaClassifier(tables MediaTables) *MediaClassifier {
	if tables.isEmpty() {
		tables = DefaultMediaTables
	}
	return &MediaClassifier{
		tables: tables,
		priority: []categorySet{
			{CategoryExcluded, toSet(tables.Excluded)},
			{CategoryHomeAndPaidAds, toSet(tables.HomeAndPaidAds)},
			{CategoryViral, toSet(tables.Viral)},
			{CategoryOther, toSet(tables.Other)},
		},
		hard:  toSet(tables.HardExcluded),
		merge: toSet(tables.MergeCandidates),
	}
}

// Classify returns the first category whose table contains detailSource,
// or CategoryOther when none does. Matching is exact.
func (c *MediaClassifier) Classify(detailSource string) Category {
	for _, set := range c.priority {
		if set.members[detailSource] {
			return set.category
		}
	}
	return CategoryOther
}

// IsHardExcluded reports whether detailSource removes a row from all counting.
func (c *MediaClassifier) IsHardExcluded(detailSource string) bool {
	return c.hard[detailSource]
}

// IsMergeCandidate reports whether detailSource is deduplicated by phone per month.
func (c *MediaClassifier) IsMergeCandidate(detailSource string) bool {
	return c.merge[detailSource]
}

// Version returns the taxonomy version label.
func (c *MediaClassifier) Version() string { return c.tables.Version }

func (t MediaTables) isEmpty() bool {
	return len(t.Excluded) == 0 && len(t.HomeAndPaidAds) == 0 &&
		len(t.Viral) == 0 && len(t.Other) == 0 &&
		len(t.HardExcluded) == 0 && len(t.MergeCandidates) == 0
}

func toSet(values []string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

var defaultClassifier = NewMediaClassifier(DefaultMediaTables)

// DefaultClassifier returns the classifier built from DefaultMediaTables.
func DefaultClassifier() *MediaClassifier { return defaultClassifier }
