package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want string
	}{
		{
			name: "uuid",
			msg:  "Cannot create event 3f2b8c1e-5a4d-4f7e-9b1c-2d3e4f5a6b7c",
			want: "Cannot create event",
		},
		{
			name: "url and ip",
			msg:  "dial tcp 10.0.0.12:3306 refused, see mysql://root@db:3306/bingo",
			want: "dial tcp refused, see",
		},
		{
			name: "file path",
			msg:  "open /var/lib/bingo/cards.json failed",
			want: "open failed",
		},
		{
			name: "numeric id",
			msg:  "Event #42 not found",
			want: "Event not found",
		},
		{
			name: "only sensitive data",
			msg:  "127.0.0.1",
			want: Unknown.Message,
		},
		{
			name: "compressed ipv6",
			msg:  "dial tcp 2001:db8::8a2e:370:7334 refused",
			want: "dial tcp refused",
		},
		{
			name: "full ipv6",
			msg:  "dial tcp fe80:0:0:0:202:b3ff:fe1e:8329 refused",
			want: "dial tcp refused",
		},
		{
			name: "loopback ipv6",
			msg:  "dial tcp ::1 refused",
			want: "dial tcp refused",
		},
		{
			name: "clock time",
			msg:  "Event starts at 12:30:45",
			want: "Event starts at 12:30:45",
		},
		{
			name: "plain message",
			msg:  "Cannot create the event",
			want: "Cannot create the event",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Sanitize(tt.msg))
		})
	}
}

func TestPublic(t *testing.T) {
	t.Run("domain error is kept", func(t *testing.T) {
		err := New(NotFound, "Not found event")
		require.Equal(t, err, Public(err))
		require.Equal(t, http.StatusNotFound, Public(err).Status())
	})

	t.Run("wrapped domain error", func(t *testing.T) {
		err := fmt.Errorf("wrap: %w", New(Conflict, "Event has already completed"))
		require.Equal(t, Conflict, Public(err).Code)
	})

	t.Run("internal error is sanitized", func(t *testing.T) {
		err := New(Internal, "Cannot reach 192.168.1.1:6379")
		require.Equal(t, "Cannot reach", Public(err).Message)
	})

	t.Run("unknown error", func(t *testing.T) {
		require.Equal(t, Unknown, Public(errors.New("sql: database is closed")))
	})
}
