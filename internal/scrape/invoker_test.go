// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

const homepage = "https://www.example-db.org"

func TestInvoke_Success(t *testing.T) {
	agent := AgentFunc(func(_ context.Context, url string) (Fields, error) {
		assert.Equal(t, homepage, url)
		return Fields{"Prefix": "exdb", "URI Format": homepage + "/entry/$1"}, nil
	})

	res := NewInvoker(agent, time.Second).Invoke(context.Background(), homepage)

	assert.True(t, res.Success)
	assert.Nil(t, res.ErrorDetail)
	require.NotNil(t, res.PrefixCandidate)
	assert.Equal(t, "exdb", *res.PrefixCandidate)
}

func TestInvoke_Failures(t *testing.T) {
	tests := []struct {
		name     string
		agent    Agent
		timeout  time.Duration
		wantKind types.ScrapeErrorKind
	}{
		{
			name:     "network",
			agent:    AgentFunc(func(context.Context, string) (Fields, error) { return nil, &net.OpError{Op: "dial", Err: errors.New("connection refused")} }),
			wantKind: types.ScrapeNetwork,
		},
		{
			name:     "http status",
			agent:    AgentFunc(func(context.Context, string) (Fields, error) { return nil, &StatusError{URL: homepage, Code: 503} }),
			wantKind: types.ScrapeNetwork,
		},
		{
			name:     "parse",
			agent:    AgentFunc(func(context.Context, string) (Fields, error) { return nil, &ParseError{Msg: "garbled"} }),
			wantKind: types.ScrapeParse,
		},
		{
			name:     "other agent error",
			agent:    AgentFunc(func(context.Context, string) (Fields, error) { return nil, errors.New("quota exceeded") }),
			wantKind: types.ScrapeAgent,
		},
		{
			name: "panic",
			agent: AgentFunc(func(context.Context, string) (Fields, error) {
				panic("nil map")
			}),
			wantKind: types.ScrapeAgent,
		},
		{
			name: "agent honoring context hits deadline",
			agent: AgentFunc(func(ctx context.Context, _ string) (Fields, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			}),
			timeout:  20 * time.Millisecond,
			wantKind: types.ScrapeTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timeout := tt.timeout
			if timeout == 0 {
				timeout = time.Second
			}
			res := NewInvoker(tt.agent, timeout).Invoke(context.Background(), homepage)

			assert.False(t, res.Success)
			require.NotNil(t, res.ErrorDetail)
			assert.Equal(t, tt.wantKind, res.ErrorDetail.Kind)
			assert.NotEmpty(t, res.ErrorDetail.Message)
			assert.Equal(t, homepage, res.SourceURL)
		})
	}
}

func TestInvoke_ReturnsAtDeadlineWhenAgentIgnoresContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	agent := AgentFunc(func(context.Context, string) (Fields, error) {
		<-release
		return Fields{"Prefix": "late"}, nil
	})

	start := time.Now()
	res := NewInvoker(agent, 30*time.Millisecond).Invoke(context.Background(), homepage)

	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, res.Success)
	require.NotNil(t, res.ErrorDetail)
	assert.Equal(t, types.ScrapeTimeout, res.ErrorDetail.Kind)
	assert.Nil(t, res.PrefixCandidate)
}

func TestInvoke_KeepsPartialFieldsOnFailure(t *testing.T) {
	agent := AgentFunc(func(context.Context, string) (Fields, error) {
		return Fields{"Name": "Example DB"}, &ParseError{Msg: "truncated output"}
	})

	res := NewInvoker(agent, time.Second).Invoke(context.Background(), homepage)

	assert.False(t, res.Success)
	assert.Equal(t, "Example DB", res.ExtraFields["name"])
}

func TestInvoke_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	agent := AgentFunc(func(ctx context.Context, _ string) (Fields, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	res := NewInvoker(agent, time.Second).Invoke(ctx, homepage)
	require.NotNil(t, res.ErrorDetail)
	assert.Equal(t, types.ScrapeCanceled, res.ErrorDetail.Kind)
}
