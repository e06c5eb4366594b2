package inquiry

// Engine computes countable inquiries and every aggregate built on them.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	classifier *MediaClassifier
}

// NewEngine creates an engine. A nil classifier uses DefaultClassifier.
func NewEngine(classifier *MediaClassifier) *Engine {
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	return &Engine{classifier: classifier}
}

var defaultEngine = NewEngine(nil)

// CountInquiries applies the default taxonomy. See Engine.CountInquiries.
func CountInquiries(inqs []Inquiry) int {
	return defaultEngine.CountInquiries(inqs)
}

// CountInquiries returns the canonical inquiry total:
//
//  1. hard-excluded detail sources count 0, even if the parser let them through;
//  2. merge-candidate detail sources count once per distinct phone per calendar
//     month, except that an empty phone always counts on its own;
//  3. everything else counts 1.
//
// The result does not depend on input order.
func (e *Engine) CountInquiries(inqs []Inquiry) int {
	normal := 0
	merged := 0
	phonesByMonth := make(map[string]map[string]struct{})

	for _, inq := range inqs {
		if e.classifier.IsHardExcluded(inq.DetailSource) {
			continue
		}
		if !e.classifier.IsMergeCandidate(inq.DetailSource) {
			normal++
			continue
		}
		if inq.Phone == "" {
			normal++
			continue
		}
		month := yearMonth(inq.Date)
		phones, ok := phonesByMonth[month]
		if !ok {
			phones = make(map[string]struct{})
			phonesByMonth[month] = phones
		}
		phones[inq.Phone] = struct{}{}
	}

	for _, phones := range phonesByMonth {
		merged += len(phones)
	}
	return normal + merged
}
