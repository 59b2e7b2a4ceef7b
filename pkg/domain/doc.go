/*
Package domain contains the core domain models of the shopping assistant.
It defines the conversation state, the user profile, inbound activities and the
actions the engine asks a channel to perform. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - State: Captures the runtime snapshot of a session (Active Step, Profile, History).
  - Profile: The answers collected so far (name, item, product, mall).
  - Activity: An inbound event (message, conversation update, anything else).
  - ActionRequest: A structural representation of what the channel should render or ask.
*/
package domain
