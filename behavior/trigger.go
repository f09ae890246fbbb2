package behavior

// TriggerType identifies how a transition was requested.
type TriggerType int

const (
	TriggerTimeout TriggerType = iota
	TriggerPrompt
	TriggerInteraction
)

// InteractionKind is a pointer-driven interaction.
type InteractionKind string

const (
	InteractionClick     InteractionKind = "click"
	InteractionDragStart InteractionKind = "drag_start"
	InteractionDragEnd   InteractionKind = "drag_end"
	InteractionPetStart  InteractionKind = "pet_start"
	InteractionPetEnd    InteractionKind = "pet_end"
	InteractionHover     InteractionKind = "hover"
	InteractionFeed      InteractionKind = "feed"
)

// Trigger is the input of Machine.Transition.
type Trigger struct {
	Type        TriggerType
	Action      State
	Interaction InteractionKind
}

func Timeout() Trigger                      { return Trigger{Type: TriggerTimeout} }
func Prompt(action State) Trigger           { return Trigger{Type: TriggerPrompt, Action: action} }
func Interact(kind InteractionKind) Trigger { return Trigger{Type: TriggerInteraction, Interaction: kind} }

// interactionTargets maps unlocked interactions to the state they enter.
var interactionTargets = map[InteractionKind]State{
	InteractionClick:     StateReaction,
	InteractionDragStart: StateDragged,
	InteractionPetStart:  StatePet,
	InteractionFeed:      StateFeeding,
}
