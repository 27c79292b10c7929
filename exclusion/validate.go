package exclusion

import (
	"go.uber.org/zap"

	"github.com/wippyai/etwgen/errors"
	"github.com/wippyai/etwgen/manifest"
	"github.com/wippyai/etwgen/template"
	"github.com/wippyai/etwgen/wintype"
)

// Instance id field every event template must carry unless excluded.
const (
	InstanceIDField = "ClrInstanceID"
	InstanceIDType  = wintype.UInt16
)

// ValidateManifest resolves the templates of every provider and validates it.
func ValidateManifest(m *manifest.Manifest, ex *Exclusions) error {
	for _, p := range m.Providers {
		templates, err := template.ResolveAll(p)
		if err != nil {
			return err
		}
		if err := Validate(p, templates, ex); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the events of one provider against the exclusion rules:
// instance id presence for every template-carrying event not excluded by a
// noclrinstanceid rule, and a consistent stack preference across all versions
// of each event id.
func Validate(p *manifest.Provider, templates template.Lookup, ex *Exclusions) error {
	// event id -> whether a stack preference was stated for its first version
	specified := make(map[int]bool)

	for _, ev := range p.Events {
		if err := checkInstanceID(p, ev, templates, ex); err != nil {
			return err
		}

		fromNoStack := StackWalkBit(p.Name, ev.Task, ev.Symbol, &ex.NoStack)
		fromStack := StackWalkBit(p.Name, ev.Task, ev.Symbol, &ex.ExplicitStack)
		stated := !fromNoStack || !fromStack

		prev, seen := specified[ev.Value]
		if !seen {
			specified[ev.Value] = stated
			continue
		}
		if prev != stated {
			return errors.New(errors.PhaseValidate, errors.KindInconsistent).
				Path(errors.EventPath(p.Name, ev.Symbol)...).
				Detail("%s: Error processing event :%s(ID%d): This file must contain either ALL versions of this event or NO versions of this event. Currently some, but not all, versions of this event are present",
					ex.Source, ev.Symbol, ev.Value).
				Value(ev.Value).
				Build()
		}
	}

	Logger().Debug("validated provider",
		zap.String("provider", p.Name),
		zap.Int("events", len(p.Events)),
		zap.Int("event_ids", len(specified)))
	return nil
}

// checkInstanceID requires a scalar ClrInstanceID of InstanceIDType.
func checkInstanceID(p *manifest.Provider, ev *manifest.Event, templates template.Lookup, ex *Exclusions) error {
	if !StackWalkBit(p.Name, ev.Task, ev.Symbol, &ex.NoClrInstance) {
		return nil
	}
	t, ok := templates[ev.Template]
	if !ok {
		return nil
	}
	if param, ok := t.Param(InstanceIDField); ok && param.Type == InstanceIDType && !param.IsCounted() {
		return nil
	}
	return errors.New(errors.PhaseValidate, errors.KindFieldMissing).
		Path(errors.EventPath(p.Name, ev.Symbol)...).
		Detail("%s:No %s field of type %s for event symbol %s",
			ex.Source, InstanceIDField, InstanceIDType, ev.Symbol).
		Value(ev.Symbol).
		Build()
}
