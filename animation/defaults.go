package animation

import "github.com/milk9111/deskpet/behavior"

var defaultClips = map[behavior.State]Selection{
	behavior.StateIdle:     {Clip: "idle", Loop: true},
	behavior.StateWander:   {Clip: "walk", Loop: true},
	behavior.StateSit:      {Clip: "sit", Loop: true},
	behavior.StateSleep:    {Clip: "sleep", Loop: true},
	behavior.StateHappy:    {Clip: "happy", Loop: true},
	behavior.StateReaction: {Clip: "reaction", Loop: false},
	behavior.StateDragged:  {Clip: "dangle", Loop: true},
	behavior.StatePet:      {Clip: "pet", Loop: true},
	behavior.StateRefuse:   {Clip: "refuse", Loop: false},
	behavior.StateMarch:    {Clip: "march", Loop: true},
	behavior.StateFeeding:  {Clip: "eat", Loop: true},
}

// DefaultClip is the last link of every chain.
func DefaultClip(s behavior.State) Selection {
	if sel, ok := defaultClips[s]; ok {
		return sel
	}
	return defaultClips[behavior.StateIdle]
}
