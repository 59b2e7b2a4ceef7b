package shopbot_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/shopbot"
	"github.com/aretw0/shopbot/pkg/domain"
	"github.com/aretw0/shopbot/pkg/ports"
)

// printSender writes text to stdout and lists the options of choice prompts.
var printSender = ports.SenderFunc(func(_ context.Context, _ string, actions ...domain.ActionRequest) error {
	for _, a := range actions {
		switch p := a.Payload.(type) {
		case string:
			fmt.Println(p)
		case domain.InputRequest:
			fmt.Println(p.Prompt, p.Options)
		}
	}
	return nil
})

// Example walks through a complete conversation with the in-memory store.
func Example() {
	b := shopbot.New()
	ctx := context.Background()

	for _, text := range []string{"hi", "It is Sam", "yes", "Watches", "Smart", "Central"} {
		if err := b.HandleActivity(ctx, domain.Message("conv-1", "user-1", text), printSender); err != nil {
			log.Fatal(err)
		}
	}

	// Output:
	// May I know your name please??
	// Please enter your name in the format: It is NAME []
	// Okay Sam. Would you like to have my assistance in your Shopping?? []
	// I am very happy to help you!!
	// So Sam, What would you like to buy? [Clothes Watches Glasses Footwear]
	// So Sam, which type of Watch would you like to buy? [Formal Sports Metal Body Smart]
	// So Sam, From which Shop would you like to buy? [Central Shoppers Stop UB City Mall Meenakshi Mall]
	// Thank you Sam!!
	// we will go to Central and buy Smart for you!!
	// It was fun assisting you!!
	// Bye Sam!!!
	// Nice to meet you!!!
}
