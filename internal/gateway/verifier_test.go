package gateway

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/shopkeeper/internal/authrpc"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestHTTPVerifier_Verify(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/verify", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_id":"u1","username":"a@example.com","email":"a@example.com","full_name":"Alice","role":"admin"}`))
	}))
	defer srv.Close()

	claims, err := NewHTTPVerifier(srv.URL+"/", nil).Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "admin", claims.Role)
	require.NotNil(t, claims.FullName)
	assert.Equal(t, "Alice", *claims.FullName)
}

func TestHTTPVerifier_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"could not validate credentials"}`},
		{"server error", http.StatusInternalServerError, ``},
		{"empty body", http.StatusOK, ``},
		{"null body", http.StatusOK, `null`},
		{"no user id", http.StatusOK, `{"role":"admin"}`},
		{"not json", http.StatusOK, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			claims, err := NewHTTPVerifier(srv.URL, nil).Verify(context.Background(), "tok")
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestHTTPVerifier_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPVerifier(url, nil).Verify(context.Background(), "tok")
	assert.Error(t, err)
}

type verifierServer struct {
	header string
	out    *structpb.Struct
	err    error
}

func (s *verifierServer) Verify(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(common.AuthorizationMDKey); len(v) > 0 {
			s.header = v[0]
		}
	}
	return s.out, s.err
}

func startVerifier(t *testing.T, impl *verifierServer) *GRPCVerifier {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	authrpc.RegisterVerifierServer(s, impl)
	go func() { _ = s.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		s.Stop()
	})
	return NewGRPCVerifier(conn)
}

func TestGRPCVerifier_Verify(t *testing.T) {
	out, err := structpb.NewStruct(map[string]any{
		"user_id": "u1", "username": "a@example.com", "email": "a@example.com", "full_name": nil, "role": "user",
	})
	require.NoError(t, err)
	impl := &verifierServer{out: out}

	claims, err := startVerifier(t, impl).Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", impl.header)
	assert.Equal(t, &Claims{UserID: "u1", Username: "a@example.com", Email: "a@example.com", Role: "user"}, claims)
}

func TestGRPCVerifier_Errors(t *testing.T) {
	v := startVerifier(t, &verifierServer{err: status.Error(codes.Unauthenticated, "could not validate credentials")})
	_, err := v.Verify(context.Background(), "tok")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	v = startVerifier(t, &verifierServer{out: &structpb.Struct{}})
	_, err = v.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, errEmptyClaims)
}
