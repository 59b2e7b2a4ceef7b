/*
Package bot routes inbound activities to the conversation engine.

A Dispatcher classifies every activity:

  - message: resume the session's flow, or start a new one when none is active.
  - conversationUpdate: welcome every member added to the conversation except the bot.
  - anything else: report the activity type back to the sender.

Replies go out through a ports.Sender and the session state is persisted only
when the turn changed it.
*/
package bot
