package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/shopbot/internal/runtime"
	"github.com/aretw0/shopbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(actions []domain.ActionRequest) []string {
	var out []string
	for _, a := range actions {
		if a.Type == domain.ActionRenderContent {
			out = append(out, a.Payload.(string))
		}
	}
	return out
}

func lastPrompt(t *testing.T, actions []domain.ActionRequest) domain.InputRequest {
	t.Helper()
	require.NotEmpty(t, actions)
	last := actions[len(actions)-1]
	require.Equal(t, domain.ActionRequestInput, last.Type)
	return last.Payload.(domain.InputRequest)
}

// walk starts a flow and feeds every reply in order.
func walk(t *testing.T, e *runtime.Engine, replies ...string) (*domain.State, []domain.ActionRequest) {
	t.Helper()
	ctx := context.Background()
	state, actions, err := e.Start(ctx, "s1", "u1")
	require.NoError(t, err)
	for _, r := range replies {
		state, actions, err = e.Navigate(ctx, state, r)
		require.NoError(t, err)
	}
	return state, actions
}

func TestEngine_Start(t *testing.T) {
	e := runtime.NewEngine()
	state, actions, err := e.Start(context.Background(), "s1", "u1")
	require.NoError(t, err)

	assert.Equal(t, domain.StepConfirmName, state.Step)
	assert.Equal(t, domain.StatusActive, state.Status)
	assert.Equal(t, "u1", state.UserID)
	assert.Equal(t, []domain.StepID{domain.StepAskName}, state.History)
	assert.Equal(t, []string{"May I know your name please??"}, texts(actions))

	p := lastPrompt(t, actions)
	assert.Equal(t, domain.InputText, p.Type)
	assert.Equal(t, "Please enter your name in the format: It is NAME", p.Prompt)
	require.NotNil(t, state.Prompt)
	assert.Equal(t, p, *state.Prompt)
}

func TestEngine_EndToEnd(t *testing.T) {
	e := runtime.NewEngine()
	state, actions := walk(t, e, "It is Sam", "yes", "Watches", "Smart", "Central")

	assert.True(t, state.Terminated())
	assert.Equal(t, domain.EndCompleted, state.EndReason)
	assert.Nil(t, state.Prompt)
	assert.Equal(t, domain.Profile{
		Name:            "Sam",
		ShoppingItem:    "Watches",
		ShoppingProduct: "Smart",
		ShoppingMall:    "Central",
	}, state.Profile)
	assert.Equal(t, []string{
		"Thank you Sam!!",
		"we will go to Central and buy Smart for you!!",
		"It was fun assisting you!!",
		"Bye Sam!!!",
		"Nice to meet you!!!",
	}, texts(actions))
	assert.Equal(t, []domain.StepID{
		domain.StepAskName,
		domain.StepConfirmName,
		domain.StepOfferHelp,
		domain.StepItemSubtype,
		domain.StepProductChoice,
		domain.StepFinalize,
	}, state.History)
}

func TestEngine_Prompts(t *testing.T) {
	e := runtime.NewEngine()

	state, actions := walk(t, e, "It is Bob Fox")
	assert.Equal(t, domain.StepOfferHelp, state.Step)
	assert.Equal(t, "Bob Fox", state.Profile.Name)
	confirm := lastPrompt(t, actions)
	assert.Equal(t, domain.InputConfirm, confirm.Type)
	assert.Equal(t, "Okay Bob Fox. Would you like to have my assistance in your Shopping??", confirm.Prompt)

	state, actions, err := e.Navigate(context.Background(), state, "y")
	require.NoError(t, err)
	assert.Equal(t, []string{"I am very happy to help you!!"}, texts(actions))
	items := lastPrompt(t, actions)
	assert.Equal(t, "So Bob Fox, What would you like to buy?", items.Prompt)
	assert.Equal(t, []string{"Clothes", "Watches", "Glasses", "Footwear"}, items.Options)

	state, actions, err = e.Navigate(context.Background(), state, "clothes")
	require.NoError(t, err)
	assert.Equal(t, "Clothes", state.Profile.ShoppingItem)
	assert.Equal(t, []string{"Shirts", "Trousers", "T-Shirts", "Shorts"}, lastPrompt(t, actions).Options)

	_, actions, err = e.Navigate(context.Background(), state, "1")
	require.NoError(t, err)
	malls := lastPrompt(t, actions)
	assert.Equal(t, "So Bob Fox, From which Shop would you like to buy?", malls.Prompt)
	assert.Equal(t, []string{"Central", "Shoppers Stop", "UB City Mall", "Meenakshi Mall"}, malls.Options)
}

func TestEngine_UnparsedName(t *testing.T) {
	e := runtime.NewEngine()
	state, actions := walk(t, e, "It Bob")

	assert.True(t, state.Terminated())
	assert.Equal(t, domain.EndUnparsedName, state.EndReason)
	assert.Empty(t, state.Profile.Name)
	assert.Equal(t, []string{"Sorry!!! I am unable to understand you."}, texts(actions))
	assert.Len(t, actions, 1)
}

func TestEngine_ThreeWordName(t *testing.T) {
	state, _ := walk(t, runtime.NewEngine(), "It is Bob")
	assert.Equal(t, "Bob", state.Profile.Name)
	assert.Equal(t, domain.StepOfferHelp, state.Step)
}

func TestEngine_Declined(t *testing.T) {
	state, actions := walk(t, runtime.NewEngine(), "It is Sam", "no")

	assert.True(t, state.Terminated())
	assert.Equal(t, domain.EndDeclined, state.EndReason)
	assert.Equal(t, []string{"Okay!! Pleasure talking to you Sam!!!"}, texts(actions))
	for _, a := range actions {
		assert.NotEqual(t, domain.ActionRequestInput, a.Type, "declining must not ask anything else")
	}
}

func TestEngine_GlassesAlwaysOffersSameSubtypes(t *testing.T) {
	for _, name := range []string{"It is Sam", "It is Bob Fox", "a b C"} {
		_, actions := walk(t, runtime.NewEngine(), name, "yes", "GLASSES")
		assert.Equal(t, []string{"Sun Glasses", "Frameless"}, lastPrompt(t, actions).Options)
	}
}

func TestEngine_FootwearFallback(t *testing.T) {
	e := runtime.NewEngine()

	// A state restored without a pending prompt accepts any item verbatim.
	state := domain.NewState("s1", domain.StepItemSubtype)
	state.Profile.Name = "Sam"

	for _, item := range []string{"Hats", "footwear", ""} {
		next, actions, err := e.Navigate(context.Background(), state, item)
		require.NoError(t, err)
		p := lastPrompt(t, actions)
		assert.Equal(t, []string{"Shoes", "Loafers", "Sandals", "Floaters"}, p.Options)
		assert.Equal(t, "Please select from above options", p.RetryPrompt)
		assert.Equal(t, item, next.Profile.ShoppingItem)
	}
}

func TestEngine_InvalidChoiceReasks(t *testing.T) {
	e := runtime.NewEngine()
	state, _ := walk(t, e, "It is Sam", "yes", "Footwear")
	require.Equal(t, domain.StepProductChoice, state.Step)

	next, actions, err := e.Navigate(context.Background(), state, "Boots")
	require.NoError(t, err)
	assert.Equal(t, state, next)
	assert.Nil(t, domain.Diff(state, next))

	require.Len(t, actions, 1)
	p := lastPrompt(t, actions)
	assert.Equal(t, "Please select from above options", p.Prompt)
	assert.Equal(t, []string{"Shoes", "Loafers", "Sandals", "Floaters"}, p.Options)

	// Without a retry text the original question is repeated.
	state, _ = walk(t, e, "It is Sam", "yes")
	_, actions, err = e.Navigate(context.Background(), state, "Hats")
	require.NoError(t, err)
	assert.Equal(t, "So Sam, What would you like to buy?", lastPrompt(t, actions).Prompt)
}

func TestEngine_InvalidConfirmReasks(t *testing.T) {
	e := runtime.NewEngine()
	state, _ := walk(t, e, "It is Sam")

	next, actions, err := e.Navigate(context.Background(), state, "perhaps")
	require.NoError(t, err)
	assert.Equal(t, domain.StepOfferHelp, next.Step)
	assert.False(t, next.Terminated())
	assert.Equal(t, "Okay Sam. Would you like to have my assistance in your Shopping??", lastPrompt(t, actions).Prompt)
}

func TestEngine_TerminatedFlow(t *testing.T) {
	e := runtime.NewEngine()
	state, _ := walk(t, e, "It Bob")

	_, actions, err := e.Navigate(context.Background(), state, "hello")
	assert.ErrorIs(t, err, domain.ErrFlowTerminated)
	assert.Empty(t, actions)
}

func TestEngine_UnknownStep(t *testing.T) {
	state := domain.NewState("s1", domain.StepID("checkout"))
	_, _, err := runtime.NewEngine().Navigate(context.Background(), state, "x")
	assert.ErrorIs(t, err, domain.ErrUnknownStep)
}

func TestEngine_DoesNotMutateInput(t *testing.T) {
	e := runtime.NewEngine()
	state, _ := walk(t, e, "It is Sam", "yes")
	before := state.Snapshot()

	_, _, err := e.Navigate(context.Background(), state, "Watches")
	require.NoError(t, err)
	assert.Equal(t, before, state)
}

func TestEngine_Inspect(t *testing.T) {
	infos := runtime.NewEngine().Inspect()
	require.Len(t, infos, 6)
	assert.Equal(t, domain.StepAskName, infos[0].ID)
	assert.Equal(t, domain.StepConfirmName, infos[0].Next)
	assert.Equal(t, domain.StepFinalize, infos[5].ID)
	assert.True(t, infos[5].Terminal)
	assert.Empty(t, infos[5].Next)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var entered, reprompted []domain.StepID
	var starts int
	var ends []domain.EndReason

	hooks := domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) { entered = append(entered, e.StepID) },
		OnReprompt:  func(_ context.Context, e *domain.StepEvent) { reprompted = append(reprompted, e.StepID) },
		OnFlowStart: func(_ context.Context, _ *domain.FlowEvent) { starts++ },
		OnFlowEnd:   func(_ context.Context, e *domain.FlowEvent) { ends = append(ends, e.Reason) },
	}

	e := runtime.NewEngine(runtime.WithLifecycleHooks(hooks))
	walk(t, e, "It is Sam", "maybe", "no")

	assert.Equal(t, 1, starts)
	assert.Equal(t, []domain.StepID{domain.StepAskName, domain.StepConfirmName, domain.StepOfferHelp}, entered)
	assert.Equal(t, []domain.StepID{domain.StepOfferHelp}, reprompted)
	assert.Equal(t, []domain.EndReason{domain.EndDeclined}, ends)
}
