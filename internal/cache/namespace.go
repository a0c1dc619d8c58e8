package cache

import "time"

// Namespace is a closed enumeration of cache categories. Every cache key is
// built from a namespace plus the owning user's id, so invalidation is always
// scoped to one owner. Each namespace carries its own TTL: long for lists that
// rarely change, short for aggregates that any write can move.
type Namespace string

const (
	// Full entity lists for one owner.
	NamespaceMockExams Namespace = "mock_exams"
	NamespaceSubjects  Namespace = "subjects"
	NamespaceTopics    Namespace = "topics"
	NamespaceQuestions Namespace = "questions"

	// Individually cached records, keyed by entity id in the extra segment.
	NamespaceQuestion Namespace = "question"

	// Relation lookups: per-question (extra = question id) and the bulk
	// all-relations form used to avoid N+1 reads when listing questions.
	NamespaceRelations    Namespace = "relations"
	NamespaceRelationsAll Namespace = "relations_all"

	// Derived data.
	NamespaceExamCounts Namespace = "exam_counts"
	NamespaceTrash      Namespace = "trash"
	NamespaceStats      Namespace = "stats"

	// Verified identity-provider tokens, keyed by token digest.
	NamespaceAuthToken Namespace = "auth_token"
)

// namespaceTTLs is the per-namespace expiry policy. Changing a TTL here is the
// only way to change it; there is no runtime configuration for cache expiry.
var namespaceTTLs = map[Namespace]time.Duration{
	NamespaceMockExams:    30 * time.Minute,
	NamespaceSubjects:     30 * time.Minute,
	NamespaceTopics:       30 * time.Minute,
	NamespaceQuestions:    5 * time.Minute,
	NamespaceQuestion:     5 * time.Minute,
	NamespaceRelations:    10 * time.Minute,
	NamespaceRelationsAll: 30 * time.Minute,
	NamespaceExamCounts:   5 * time.Minute,
	NamespaceTrash:        5 * time.Minute,
	NamespaceStats:        60 * time.Second,
	NamespaceAuthToken:    5 * time.Minute,
}

// TTL returns the namespace's configured expiry.
func (n Namespace) TTL() time.Duration {
	if ttl, ok := namespaceTTLs[n]; ok {
		return ttl
	}
	return time.Minute
}

func (n Namespace) String() string {
	return string(n)
}
