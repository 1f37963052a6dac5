package stuncheck

import (
	"context"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		addrs []string
		want  string
	}{
		{"single answer", []string{"1.2.3.4:1000"}, NATUnknown},
		{"consistent mapping", []string{"1.2.3.4:1000", "1.2.3.4:1000"}, NATConeOrRestricted},
		{"varying mapping", []string{"1.2.3.4:1000", "1.2.3.4:2000"}, NATSymmetric},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := classify(tc.addrs); got != tc.want {
				t.Fatalf("classify(%v)=%q, want %q", tc.addrs, got, tc.want)
			}
		})
	}
}

func TestCheck_NoServers(t *testing.T) {
	t.Parallel()

	_, err := Check(context.Background(), nil, time.Second)
	if err == nil {
		t.Fatal("expected error with no servers")
	}
}

func TestCheck_UnreachableServer(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Check(ctx, []string{"127.0.0.1:1"}, 500*time.Millisecond)
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
}
