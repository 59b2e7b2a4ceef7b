package runtime

import (
	"fmt"

	"github.com/aretw0/shopbot/pkg/catalog"
	"github.com/aretw0/shopbot/pkg/domain"
)

// order is the fixed sequence of steps. There are no backward transitions.
var order = []domain.StepID{
	domain.StepAskName,
	domain.StepConfirmName,
	domain.StepOfferHelp,
	domain.StepItemSubtype,
	domain.StepProductChoice,
	domain.StepFinalize,
}

type step struct {
	info domain.StepInfo
	run  func(p *domain.Profile, reply string) outcome
}

// outcome is what a step produced: messages, the next question or an end.
type outcome struct {
	actions []domain.ActionRequest
	prompt  *domain.InputRequest
	end     domain.EndReason
}

func (o *outcome) say(lines ...string) {
	for _, line := range lines {
		o.actions = append(o.actions, domain.Content(line))
	}
}

func (o *outcome) ask(req domain.InputRequest) {
	o.prompt = &req
	o.actions = append(o.actions, domain.Ask(req))
}

func (o *outcome) finish(reason domain.EndReason) {
	o.end = reason
}

func choice(m catalog.Menu) domain.InputRequest {
	return domain.InputRequest{
		Type:        domain.InputChoice,
		Prompt:      m.Prompt,
		Options:     m.Choices,
		RetryPrompt: m.RetryPrompt,
	}
}

func (e *Engine) table() map[domain.StepID]step {
	return map[domain.StepID]step{
		domain.StepAskName: {
			info: domain.StepInfo{ID: domain.StepAskName, Next: domain.StepConfirmName},
			run:  e.askName,
		},
		domain.StepConfirmName: {
			info: domain.StepInfo{ID: domain.StepConfirmName, Input: domain.InputText, Next: domain.StepOfferHelp, Terminal: true},
			run:  e.confirmName,
		},
		domain.StepOfferHelp: {
			info: domain.StepInfo{ID: domain.StepOfferHelp, Input: domain.InputConfirm, Next: domain.StepItemSubtype, Terminal: true},
			run:  e.offerHelp,
		},
		domain.StepItemSubtype: {
			info: domain.StepInfo{ID: domain.StepItemSubtype, Input: domain.InputChoice, Next: domain.StepProductChoice},
			run:  e.itemSubtype,
		},
		domain.StepProductChoice: {
			info: domain.StepInfo{ID: domain.StepProductChoice, Input: domain.InputChoice, Next: domain.StepFinalize},
			run:  e.productChoice,
		},
		domain.StepFinalize: {
			info: domain.StepInfo{ID: domain.StepFinalize, Input: domain.InputChoice, Terminal: true},
			run:  e.finalize,
		},
	}
}

func (e *Engine) askName(_ *domain.Profile, _ string) (o outcome) {
	o.say("May I know your name please??")
	o.ask(domain.InputRequest{
		Type:   domain.InputText,
		Prompt: "Please enter your name in the format: It is NAME",
	})
	return o
}

func (e *Engine) confirmName(p *domain.Profile, reply string) (o outcome) {
	name, ok := ParseName(reply)
	if !ok {
		o.say("Sorry!!! I am unable to understand you.")
		o.finish(domain.EndUnparsedName)
		return o
	}
	p.Name = name
	o.ask(domain.InputRequest{
		Type:   domain.InputConfirm,
		Prompt: fmt.Sprintf("Okay %s. Would you like to have my assistance in your Shopping??", name),
	})
	return o
}

func (e *Engine) offerHelp(p *domain.Profile, reply string) (o outcome) {
	if !isYes(reply) {
		o.say(fmt.Sprintf("Okay!! Pleasure talking to you %s!!!", p.Name))
		o.finish(domain.EndDeclined)
		return o
	}
	o.say("I am very happy to help you!!")
	o.ask(choice(e.catalog.ItemMenu(p.Name)))
	return o
}

func (e *Engine) itemSubtype(p *domain.Profile, reply string) (o outcome) {
	p.ShoppingItem = reply
	o.ask(choice(e.catalog.SubtypeMenu(reply, p.Name)))
	return o
}

func (e *Engine) productChoice(p *domain.Profile, reply string) (o outcome) {
	p.ShoppingProduct = reply
	o.ask(choice(e.catalog.MallMenu(p.Name)))
	return o
}

func (e *Engine) finalize(p *domain.Profile, reply string) (o outcome) {
	p.ShoppingMall = reply
	o.say(
		fmt.Sprintf("Thank you %s!!", p.Name),
		fmt.Sprintf("we will go to %s and buy %s for you!!", p.ShoppingMall, p.ShoppingProduct),
		"It was fun assisting you!!",
		fmt.Sprintf("Bye %s!!!", p.Name),
		"Nice to meet you!!!",
	)
	o.finish(domain.EndCompleted)
	return o
}
