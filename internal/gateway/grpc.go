package gateway

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/shopkeeper/internal/authrpc"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCVerifier calls the TokenVerifier gRPC service.
type GRPCVerifier struct {
	client *authrpc.VerifierClient
}

func NewGRPCVerifier(cc grpc.ClientConnInterface) *GRPCVerifier {
	return &GRPCVerifier{client: authrpc.NewVerifierClient(cc)}
}

// DialGRPC opens a plaintext connection to the auth service at addr. The
// connection is established lazily by the first call.
func DialGRPC(addr string) (*GRPCVerifier, *grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dial auth grpc: %w", err)
	}
	return NewGRPCVerifier(conn), conn, nil
}

func (v *GRPCVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	ctx = metadata.AppendToOutgoingContext(ctx, common.AuthorizationMDKey, common.BearerScheme+" "+token)

	out, err := v.client.Verify(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify rpc: %w", err)
	}
	if out == nil || len(out.GetFields()) == 0 {
		return nil, errEmptyClaims
	}
	claims := claimsFromStruct(out)
	if claims.UserID == "" {
		return nil, errEmptyClaims
	}
	return claims, nil
}

func claimsFromStruct(s *structpb.Struct) *Claims {
	str := func(key string) string {
		return s.GetFields()[key].GetStringValue()
	}
	c := &Claims{
		UserID:   str("user_id"),
		Username: str("username"),
		Email:    str("email"),
		Role:     str("role"),
	}
	if v, ok := s.GetFields()["full_name"]; ok {
		if _, isStr := v.GetKind().(*structpb.Value_StringValue); isStr {
			name := v.GetStringValue()
			c.FullName = &name
		}
	}
	return c
}
