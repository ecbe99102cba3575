package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsMatchesByKind(t *testing.T) {
	err := NotFound("no place found")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is to match ErrNotFound")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatalf("not found must not match unauthorized")
	}
	wrapped := fmt.Errorf("handler: %w", err)
	if KindOf(wrapped) != KindNotFound {
		t.Fatalf("KindOf through wrap = %v", KindOf(wrapped))
	}
}

func TestUnavailableHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused on 10.0.0.3")
	err := Unavailable(cause)
	if err.Error() != unavailableMessage {
		t.Fatalf("message leaked cause: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause should stay reachable through Unwrap")
	}
}

func TestFromTreatsUnknownAsUnavailable(t *testing.T) {
	if From(nil) != nil {
		t.Fatalf("From(nil) should be nil")
	}
	if got := From(errors.New("boom")).Kind; got != KindUnavailable {
		t.Fatalf("kind = %v, want unavailable", got)
	}
	if got := From(ErrConflict).Kind; got != KindConflict {
		t.Fatalf("kind = %v, want conflict", got)
	}
}

func TestStatusesAreDistinct(t *testing.T) {
	kinds := []Kind{KindNotFound, KindConflict, KindUnauthorized, KindInvalidCredentials, KindUnavailable, KindUpstreamGeocode, KindInvalidInput}
	seen := map[int]Kind{}
	for _, k := range kinds {
		s := k.Status()
		if prev, ok := seen[s]; ok {
			t.Fatalf("%v and %v share status %d", prev, k, s)
		}
		seen[s] = k
	}
	if KindUnavailable.Status() != http.StatusServiceUnavailable {
		t.Fatalf("unavailable should be 503")
	}
	if KindUnknown.Status() != http.StatusInternalServerError {
		t.Fatalf("unknown should be 500")
	}
}
