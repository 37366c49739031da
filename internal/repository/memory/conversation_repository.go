package memory

import (
	"strings"
	"sync"
	"time"

	"multikb-rag-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

const sessionKeySeparator = "::"

// conversation is the cached value. The mutex guards Turns because a
// session can be hit by concurrent chat requests.
type conversation struct {
	mu    sync.Mutex
	turns []entity.ConversationTurn
}

// ConversationRepository keeps per-session chat history in process memory.
// Sessions are scoped per knowledge base, so the same session id talking to
// two knowledge bases holds two independent histories.
type ConversationRepository struct {
	cache    *cache.Cache
	maxTurns int
}

func NewConversationRepository(maxTurns int) *ConversationRepository {
	if maxTurns <= 0 {
		maxTurns = 20
	}
	// Idle sessions expire after an hour, purged every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &ConversationRepository{
		cache:    c,
		maxTurns: maxTurns,
	}
}

func sessionKey(kbName, sessionID string) string {
	return kbName + sessionKeySeparator + sessionID
}

func (r *ConversationRepository) getOrCreate(kbName, sessionID string) *conversation {
	key := sessionKey(kbName, sessionID)
	if x, found := r.cache.Get(key); found {
		return x.(*conversation)
	}
	conv := &conversation{}
	// SetDefault after a missed Get can race with another goroutine; Add
	// keeps the first writer's value.
	if err := r.cache.Add(key, conv, cache.DefaultExpiration); err != nil {
		if x, found := r.cache.Get(key); found {
			return x.(*conversation)
		}
	}
	return conv
}

// History returns a copy of the session's turns, oldest first.
func (r *ConversationRepository) History(kbName, sessionID string) []entity.ConversationTurn {
	key := sessionKey(kbName, sessionID)
	x, found := r.cache.Get(key)
	if !found {
		return nil
	}
	conv := x.(*conversation)
	conv.mu.Lock()
	defer conv.mu.Unlock()
	out := make([]entity.ConversationTurn, len(conv.turns))
	copy(out, conv.turns)
	return out
}

// Append records one query/answer exchange and refreshes the session TTL.
// Oldest turns are evicted once the cap is hit.
func (r *ConversationRepository) Append(kbName, sessionID string, turn entity.ConversationTurn) {
	conv := r.getOrCreate(kbName, sessionID)
	conv.mu.Lock()
	conv.turns = append(conv.turns, turn)
	if len(conv.turns) > r.maxTurns {
		conv.turns = conv.turns[len(conv.turns)-r.maxTurns:]
	}
	conv.mu.Unlock()
	r.cache.SetDefault(sessionKey(kbName, sessionID), conv)
}

// Clear drops one session's history. Returns whether the session existed.
func (r *ConversationRepository) Clear(kbName, sessionID string) bool {
	key := sessionKey(kbName, sessionID)
	_, found := r.cache.Get(key)
	r.cache.Delete(key)
	return found
}

// ClearKb drops every session belonging to one knowledge base. Used when
// the knowledge base itself is deleted.
func (r *ConversationRepository) ClearKb(kbName string) {
	prefix := kbName + sessionKeySeparator
	for key := range r.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Delete(key)
		}
	}
}
