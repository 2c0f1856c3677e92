package swapio

import (
	"github.com/krazyTry/swapio-clmm-go/clmm"
)

// NewPoolManager creates a quote manager for one pool.
//
// Example:
//
// manager, _ := NewPoolManagerFromAccount(poolAccount, clmm.WithSlippageBps(50))
//
// manager.Update(fetch(manager.AccountsToUpdate()))
//
// manager.Quote(clmm.QuoteParams{Amount: 1_000_000, InputMint: mint0, OutputMint: mint1})
var NewPoolManager = clmm.NewPoolManager

var NewPoolManagerFromAccount = clmm.NewPoolManagerFromAccount

// FromKeyedAccount creates a router adapter.
//
// Example:
//
// amm, _ := FromKeyedAccount(poolAccount, clmm.AmmContext{ClockRef: &clmm.ClockRef{Epoch: epoch}})
//
// amm.SwapAndAccountMetas(params)
var FromKeyedAccount = clmm.FromKeyedAccount
