package ai

import (
	"fmt"
	"net/http"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		status int
		want   ErrorKind
	}{
		{http.StatusTooManyRequests, ErrorKindThrottled},
		{http.StatusUnauthorized, ErrorKindAccessDenied},
		{http.StatusForbidden, ErrorKindAccessDenied},
		{http.StatusBadRequest, ErrorKindInvalidRequest},
		{http.StatusNotFound, ErrorKindInvalidRequest},
		{http.StatusUnprocessableEntity, ErrorKindInvalidRequest},
		{http.StatusInternalServerError, ErrorKindUnknown},
		{http.StatusBadGateway, ErrorKindUnknown},
	}
	for _, c := range cases {
		if got := classifyStatus(c.status); got != c.want {
			t.Errorf("status %d: expected %v, got %v", c.status, c.want, got)
		}
	}
}

func TestKindOf(t *testing.T) {
	pe := &ProviderError{Provider: "p", Kind: ErrorKindThrottled}
	if got := KindOf(pe); got != ErrorKindThrottled {
		t.Errorf("expected throttled, got %v", got)
	}

	wrapped := fmt.Errorf("calling provider: %w", pe)
	if got := KindOf(wrapped); got != ErrorKindThrottled {
		t.Errorf("expected throttled through wrapping, got %v", got)
	}

	if got := KindOf(fmt.Errorf("plain error")); got != ErrorKindUnknown {
		t.Errorf("expected unknown for plain error, got %v", got)
	}
	if got := KindOf(nil); got != ErrorKindUnknown {
		t.Errorf("expected unknown for nil, got %v", got)
	}
}
