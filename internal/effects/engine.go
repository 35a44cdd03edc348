package effects

import (
	"time"

	"github.com/hollowmere/spellforge/internal/errors"
)

// TriggerHook is the caller's effect behavior, invoked once per triggered
// instance. Triggering may run caller-visible behavior; keeping it behind
// this boundary keeps the state folding around it pure.
type TriggerHook func(Instance)

// Apply performs a stack operation against the instance of tmpl's type,
// creating one if the operation warrants it. Results clamp into
// [0, MaxStacks]; an instance reaching 0 stacks is removed.
func (s State) Apply(tmpl *Template, amount int, op StackOp, at time.Time) (State, error) {
	if tmpl == nil {
		return s, errors.InvalidArgument("effect template is required")
	}
	if tmpl.Type == "" {
		return s, errors.InvalidArgument("effect template must have a type")
	}
	if tmpl.MaxStacks <= 0 {
		return s, errors.Validationf("effect %s must allow at least one stack", tmpl.Type)
	}
	if amount < 0 {
		return s, errors.InvalidArgumentf("stack amount cannot be negative, got %d", amount)
	}

	next := s.clone()
	idx := next.indexOf(tmpl.Type)

	var stacks int
	switch op {
	case StackAdd:
		if idx >= 0 {
			stacks = next.Instances[idx].Stacks + amount
		} else {
			stacks = amount
		}
	case StackSet:
		stacks = amount
	case StackRemove:
		if idx < 0 {
			return next, nil
		}
		stacks = next.Instances[idx].Stacks - amount
	case StackMultiply:
		// Multiplying into an absent instance yields zero, so nothing to create.
		if idx < 0 {
			return next, nil
		}
		stacks = next.Instances[idx].Stacks * amount
	default:
		return s, errors.InvalidArgumentf("unknown stack operation %q", op)
	}

	stacks = clampStacks(stacks, tmpl.MaxStacks)

	switch {
	case stacks == 0 && idx >= 0:
		next = next.removeAt(idx)
	case stacks == 0:
		// Nothing created, nothing removed.
	case idx >= 0:
		// Re-applying rebinds the instance to the passed template, so the
		// template the stacks were clamped against is the one stored.
		next.Instances[idx].Stacks = stacks
		next.Instances[idx].Template = tmpl
	default:
		next.Instances = append(next.Instances, Instance{
			Type:      tmpl.Type,
			Stacks:    stacks,
			Template:  tmpl,
			AppliedAt: at,
		})
	}

	return next, nil
}

// Trigger fires every instance matching the condition in insertion order:
// the hook runs first, then the instance's trigger-driven decay. Expired
// instances are swept once all matches have been processed.
func (s State) Trigger(condition TriggerCondition, hook TriggerHook) State {
	next := s.clone()

	for i := range next.Instances {
		inst := next.Instances[i]
		if inst.Template == nil || inst.Template.Trigger != condition {
			continue
		}

		if hook != nil {
			hook(inst)
		}

		switch inst.Template.Decay {
		case DecayReduceByOneOnTrigger:
			next.Instances[i].Stacks--
		case DecayRemoveOnTrigger:
			next.Instances[i].Stacks = 0
		}
	}

	return next.sweep()
}

// Decay applies an end-phase decay rule to every instance whose template
// declares the given mode. Instances with other modes pass through
// unchanged; calling with a mode no instance declares is a no-op.
func (s State) Decay(mode DecayMode) State {
	next := s.clone()

	for i := range next.Instances {
		inst := next.Instances[i]
		if inst.Template == nil || inst.Template.Decay != mode {
			continue
		}

		switch mode {
		case DecayEndOfTurn:
			next.Instances[i].Stacks = 0
		case DecayReduceByOneEndOfTurn:
			next.Instances[i].Stacks--
		}
	}

	return next.sweep()
}

// indexOf returns the position of the type's instance, -1 if absent
func (s State) indexOf(effectType EffectType) int {
	for i, inst := range s.Instances {
		if inst.Type == effectType {
			return i
		}
	}
	return -1
}

// removeAt drops the instance at i, preserving order
func (s State) removeAt(i int) State {
	s.Instances = append(s.Instances[:i], s.Instances[i+1:]...)
	if len(s.Instances) == 0 {
		s.Instances = nil
	}
	return s
}

// sweep removes every expired (zero-stack) instance
func (s State) sweep() State {
	kept := s.Instances[:0]
	for _, inst := range s.Instances {
		if inst.Stacks > 0 {
			kept = append(kept, inst)
		}
	}
	if len(kept) == 0 {
		return State{}
	}
	s.Instances = kept
	return s
}

func clampStacks(stacks, maxStacks int) int {
	if stacks < 0 {
		return 0
	}
	if stacks > maxStacks {
		return maxStacks
	}
	return stacks
}
