/*
Package runner implements the console channel of the shopping bot.

The runner turns a line-oriented stream (a terminal, a pipe, a test buffer) into
conversation activities. It announces the user with a conversationUpdate, then
sends every line as a message activity and prints whatever the bot replies.

# Key Components

  - Runner: the read/dispatch loop. Stops on exit, quit, EOF or an interrupt.
  - IOHandler: decouples how replies are shown and lines are read.
  - TextHandler: interactive text mode. Choice prompts are listed with numbers.
  - JSONHandler: JSON-Lines mode for scripting.

# Usage

	bot := shopbot.New()
	r := runner.NewRunner(
		runner.WithConversation("console-1", "user-1"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdout, runner.WithStdin())),
	)
	if err := r.Run(ctx, bot); err != nil {
		log.Fatal(err)
	}
*/
package runner
