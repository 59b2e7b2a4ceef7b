/*
Package ports defines the driven ports (interfaces) of the shopping bot.

These interfaces decouple the conversation logic from external implementations,
allowing the bot to work with various storage backends and channels.

# Key Interfaces

  - StateStore: Responsible for persisting and loading session State.
  - SessionLocker: keeps two replicas from running turns on one session at once.
  - Sender: Delivers outbound actions to a channel (HTTP, console, MCP).
*/
package ports
