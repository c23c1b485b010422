package inmemory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nifty-network/nifty-daemon/internal/core/ports"
	inmemory "github.com/nifty-network/nifty-daemon/internal/infrastructure/registry/inmemory"
)

const (
	assetContract = "0x5fbdb2315678afecb367f032d93f642f64180aa3"
	operator      = "0x9965507d1a55bcc2695c58ba16fb37d819b0a4dc"
	owner         = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
	recipient     = "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
)

func TestOwnershipAndApprovals(t *testing.T) {
	ctx := context.Background()
	registry := inmemory.NewRegistry(operator)

	_, err := registry.OwnerOf(ctx, assetContract, 7)
	require.EqualError(t, err, ports.ErrTokenNotFound.Error())

	require.NoError(t, registry.MintToken(assetContract, 7, owner))
	require.Error(t, registry.MintToken(assetContract, 7, owner))

	found, err := registry.OwnerOf(ctx, assetContract, 7)
	require.NoError(t, err)
	require.Equal(t, owner, found)

	approved, err := registry.IsApprovedOperator(ctx, assetContract, owner, operator)
	require.NoError(t, err)
	require.False(t, approved)

	registry.ApproveOperator(assetContract, owner, operator, true)
	approved, err = registry.IsApprovedOperator(ctx, assetContract, owner, operator)
	require.NoError(t, err)
	require.True(t, approved)

	registry.ApproveOperator(assetContract, owner, operator, false)
	approved, err = registry.IsApprovedOperator(ctx, assetContract, owner, operator)
	require.NoError(t, err)
	require.False(t, approved)
}

func TestTransferToken(t *testing.T) {
	ctx := context.Background()
	registry := inmemory.NewRegistry(operator)

	require.NoError(t, registry.MintToken(assetContract, 7, owner))

	// no authorization yet.
	err := registry.TransferToken(ctx, assetContract, owner, recipient, 7)
	require.EqualError(t, err, inmemory.ErrTransferNotAuthorized.Error())

	registry.ApproveToken(assetContract, 7, operator)
	err = registry.TransferToken(ctx, assetContract, owner, recipient, 7)
	require.NoError(t, err)

	found, err := registry.OwnerOf(ctx, assetContract, 7)
	require.NoError(t, err)
	require.Equal(t, recipient, found)

	// the per-token approval is cleared once spent.
	err = registry.TransferToken(ctx, assetContract, recipient, owner, 7)
	require.EqualError(t, err, inmemory.ErrTransferNotAuthorized.Error())

	// a stale from is rejected even with a valid authorization.
	registry.ApproveOperator(assetContract, owner, operator, true)
	err = registry.TransferToken(ctx, assetContract, owner, recipient, 7)
	require.EqualError(t, err, inmemory.ErrNotTokenOwner.Error())
}

func TestTransferFunds(t *testing.T) {
	ctx := context.Background()
	registry := inmemory.NewRegistry(operator)

	err := registry.TransferFunds(ctx, recipient, owner, 100)
	require.EqualError(t, err, inmemory.ErrInsufficientFunds.Error())

	registry.CreditFunds(recipient, 250)
	err = registry.TransferFunds(ctx, recipient, owner, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(150), registry.BalanceOf(recipient))
	require.Equal(t, uint64(100), registry.BalanceOf(owner))
}
