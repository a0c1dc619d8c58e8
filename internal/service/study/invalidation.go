package study

import (
	"studytrack-backend/internal/cache"

	"go.uber.org/zap"
)

// entityKind identifies the primary entity a write touched, for the purpose
// of picking which cache namespaces to clear.
type entityKind string

const (
	kindMockExam entityKind = "mock_exam"
	kindSubject  entityKind = "subject"
	kindTopic    entityKind = "topic"
	kindQuestion entityKind = "question"
	kindTrash    entityKind = "trash"
)

type writeOp string

const (
	opCreate writeOp = "create"
	opUpdate writeOp = "update"
	opDelete writeOp = "delete"
)

// questionNamespaces is every namespace that can hold data derived from a
// question or its relations. Any question write clears all of them: the
// policy is coarse by entity type and fine by owner, trading false misses for
// the guarantee that no stale aggregate survives a write.
var questionNamespaces = []cache.Namespace{
	cache.NamespaceQuestions,
	cache.NamespaceQuestion,
	cache.NamespaceRelations,
	cache.NamespaceRelationsAll,
	cache.NamespaceExamCounts,
	cache.NamespaceStats,
}

// invalidationRules maps entity kind and operation to the namespaces that
// must be cleared for the mutating owner after the write commits.
var invalidationRules = map[entityKind]map[writeOp][]cache.Namespace{
	kindMockExam: {
		opCreate: {cache.NamespaceMockExams, cache.NamespaceStats},
		opUpdate: {cache.NamespaceMockExams, cache.NamespaceStats},
		// An exam delete can remove relation rows, so the relation-derived
		// namespaces go too.
		opDelete: {cache.NamespaceMockExams, cache.NamespaceRelations, cache.NamespaceRelationsAll, cache.NamespaceExamCounts, cache.NamespaceStats},
	},
	kindSubject: {
		opCreate: {cache.NamespaceSubjects, cache.NamespaceStats},
		opUpdate: {cache.NamespaceSubjects, cache.NamespaceStats},
		opDelete: {cache.NamespaceSubjects, cache.NamespaceStats},
	},
	kindTopic: {
		opCreate: {cache.NamespaceTopics, cache.NamespaceStats},
		opUpdate: {cache.NamespaceTopics, cache.NamespaceStats},
		opDelete: {cache.NamespaceTopics, cache.NamespaceStats},
	},
	kindQuestion: {
		opCreate: questionNamespaces,
		opUpdate: questionNamespaces,
		// Deleting a question writes a trash snapshot as well.
		opDelete: append(append([]cache.Namespace{}, questionNamespaces...), cache.NamespaceTrash),
	},
	kindTrash: {
		// Restore materializes a new question, so it dirties everything a
		// question create does, plus the trash listing.
		opCreate: append(append([]cache.Namespace{}, questionNamespaces...), cache.NamespaceTrash),
		// Purge only removes snapshots; active data and stats are untouched.
		opDelete: {cache.NamespaceTrash},
	},
}

// invalidateAfterWrite clears every namespace the rules name for this write,
// scoped to the owner. It runs strictly after the repository commit and never
// fails the request: a cache-layer problem must not undo a durable write.
func (s *service) invalidateAfterWrite(kind entityKind, op writeOp, userID string) {
	namespaces, ok := invalidationRules[kind][op]
	if !ok {
		s.logger.Warn("no invalidation rule for write",
			zap.String("kind", string(kind)),
			zap.String("op", string(op)))
		return
	}
	for _, ns := range namespaces {
		s.cache.Invalidate(ns, userID, "")
	}
	s.logger.Debug("cache invalidated after write",
		zap.String("kind", string(kind)),
		zap.String("op", string(op)),
		zap.Int("namespaces", len(namespaces)))
}
