// Package services implements the business logic of the streak bot: chat
// commands, daily-problem resolution, streak arithmetic, report rendering,
// and the daily reconciliation workflow.
//
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers. Mapping to
// user-visible reply text happens at the transport layer.
package services

import "errors"

var (
	// ErrNotSubscribed indicates the chat has no active subscription, which
	// username add/remove commands require.
	ErrNotSubscribed = errors.New("chat is not subscribed")

	// ErrInvalidUsername is returned when a command carries a missing or
	// malformed LeetCode username.
	ErrInvalidUsername = errors.New("invalid leetcode username")
)
