package walletstate

import (
	"sync"

	"github.com/ccoin/offline-cbdc-wallet/internal/errs"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
	"github.com/ccoin/offline-cbdc-wallet/pkg/types"
)

// TokenState is a token's lifecycle state, tracked by TokenStore rather than
// on the token itself.
type TokenState int

const (
	Unspent TokenState = iota
	Spent
	Expired
)

func (s TokenState) String() string {
	switch s {
	case Unspent:
		return "unspent"
	case Spent:
		return "spent"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

var (
	ErrTokenExists       = errs.New(errs.KindAlreadyExists, "walletstate: token with this serial already exists")
	ErrTokenNotFound     = errs.New(errs.KindNotFound, "walletstate: no token with this serial")
	ErrTokenNotSpendable = errs.New(errs.KindNotSpendable, "walletstate: token is not unspent")
)

type tokenEntry struct {
	token *types.Token
	state TokenState
}

// TokenStore holds every token a wallet has ever seen, keyed by serial,
// along with each token's lifecycle state.
type TokenStore struct {
	mu     sync.Mutex
	tokens map[[32]byte]*tokenEntry
}

func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[[32]byte]*tokenEntry)}
}

// Add inserts a freshly minted or derived token as Unspent. Returns
// ErrTokenExists if the serial is already present.
func (ts *TokenStore) Add(token *types.Token) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	key := token.Serial.Key()
	if _, exists := ts.tokens[key]; exists {
		return ErrTokenExists
	}
	ts.tokens[key] = &tokenEntry{token: token, state: Unspent}
	return nil
}

// MarkSpent transitions a token from Unspent to Spent. It is an error to
// mark a token that does not exist, or one that is not currently Unspent.
func (ts *TokenStore) MarkSpent(serial group.Scalar) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	entry, ok := ts.tokens[serial.Key()]
	if !ok {
		return ErrTokenNotFound
	}
	if entry.state != Unspent {
		return ErrTokenNotSpendable
	}
	entry.state = Spent
	return nil
}

// MarkExpired transitions a token to Expired, unless it is already Spent (in
// which case this is a no-op: a spent token's history should not retroactively
// be overwritten just because its expiry has since passed).
func (ts *TokenStore) MarkExpired(serial group.Scalar) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	entry, ok := ts.tokens[serial.Key()]
	if !ok {
		return ErrTokenNotFound
	}
	if entry.state == Spent {
		return nil
	}
	entry.state = Expired
	return nil
}

// GetState returns a token's current lifecycle state.
func (ts *TokenStore) GetState(serial group.Scalar) (TokenState, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	entry, ok := ts.tokens[serial.Key()]
	if !ok {
		return 0, ErrTokenNotFound
	}
	return entry.state, nil
}

// Get returns the token and its state, for internal callers (e.g. the
// wallet's spend builder) that need the token's private opening.
func (ts *TokenStore) Get(serial group.Scalar) (*types.Token, TokenState, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	entry, ok := ts.tokens[serial.Key()]
	if !ok {
		return nil, 0, ErrTokenNotFound
	}
	return entry.token, entry.state, nil
}

// GetUnspentTokens returns every token that is Unspent and not yet expired
// as of now.
func (ts *TokenStore) GetUnspentTokens(now uint64) []*types.Token {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	var out []*types.Token
	for _, entry := range ts.tokens {
		if entry.state == Unspent && !entry.token.IsExpired(now) {
			out = append(out, entry.token)
		}
	}
	return out
}

// AllTokens returns a snapshot of every token and its lifecycle state.
func (ts *TokenStore) AllTokens() map[[32]byte]TokenState {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make(map[[32]byte]TokenState, len(ts.tokens))
	for k, entry := range ts.tokens {
		out[k] = entry.state
	}
	return out
}
