/*
Package shopbot is a scripted shopping assistant.

The bot greets users, asks for their name ("It is NAME"), offers help and walks
them through three single-choice menus (item, sub-type, shop) before echoing a
summary. Every conversation is an explicit state record: the step waiting for
the next reply plus the user's profile. Records live in a pluggable
ports.StateStore (memory, file, bbolt, SQLite or Redis).

# Architecture

  - internal/runtime: the six-step flow, reply validation and name parsing.
  - pkg/catalog: the menus, embedded as YAML.
  - pkg/bot: the turn dispatcher (message, conversationUpdate, other).
  - pkg/session: per-session locking and change-only persistence.
  - pkg/adapters: stores and channels (HTTP, MCP).
  - pkg/runner: the interactive console channel.
  - pkg/observability: Prometheus collectors and debug logging as lifecycle hooks.

# Usage

	b := shopbot.New()

	sender := ports.SenderFunc(func(ctx context.Context, id string, actions ...domain.ActionRequest) error {
		for _, a := range actions {
			fmt.Println(a.Payload)
		}
		return nil
	})

	_ = b.HandleActivity(ctx, domain.Message("conv-1", "user-1", "hi"), sender)
	_ = b.HandleActivity(ctx, domain.Message("conv-1", "user-1", "It is Sam"), sender)
*/
package shopbot
