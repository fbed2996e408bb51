package texo

import (
	"errors"
	"fmt"

	"github.com/mudler/xlog"
	"github.com/texo-ai/texo/prompt"
	"github.com/texo-ai/texo/structures"
)

var (
	// ErrNoRouteSelected is returned when the classifier picks none of the
	// configured routes and no fallback route is set.
	ErrNoRouteSelected error = errors.New("no route selected by the classifier")
)

// Route is a named handler a conversation can be dispatched to. LLM overrides
// the classifier's model for the handling call (e.g. a stronger model for a
// harder route); System is prepended to the dispatched conversation.
type Route struct {
	Name        string
	Description string
	LLM         LLM
	System      string
}

type routeMetadata struct {
	Name        string
	Description string
}

// Dispatch classifies the fragment into one of the routes and runs the
// handling call on the chosen one. The classification is constrained to the
// route names; an out-of-set or empty classification goes to the fallback
// route when one is configured with WithFallbackRoute, and fails with
// ErrNoRouteSelected otherwise.
func Dispatch(classifier LLM, routes []Route, f Fragment, opts ...Option) (Fragment, error) {
	o := defaultOptions()
	o.Apply(opts...)

	if len(routes) == 0 {
		return Fragment{}, fmt.Errorf("no routes configured")
	}

	names := []string{}
	metadata := []routeMetadata{}
	for _, route := range routes {
		names = append(names, route.Name)
		metadata = append(metadata, routeMetadata{Name: route.Name, Description: route.Description})
	}

	prompter := o.prompts.GetPrompt(prompt.RouterType)

	routerOptions := struct {
		Context string
		Routes  []routeMetadata
	}{
		Context: f.String(),
		Routes:  metadata,
	}

	p, err := prompter.Render(routerOptions)
	if err != nil {
		return Fragment{}, fmt.Errorf("failed to render router prompt: %w", err)
	}

	structure, routing := structures.StructureRouting(names)

	routerConv := NewEmptyFragment().AddMessage("user", p)
	if err := routerConv.ExtractStructure(o.ctx, classifier, structure); err != nil {
		return Fragment{}, fmt.Errorf("failed to extract route: %w", err)
	}

	xlog.Debug("Conversation classified", "route", routing.Route, "reasoning", routing.Reasoning)

	route := findRoute(routes, routing.Route)
	if route == nil {
		if o.fallbackRoute == "" {
			return Fragment{}, fmt.Errorf("%w: %q", ErrNoRouteSelected, routing.Route)
		}
		route = findRoute(routes, o.fallbackRoute)
		if route == nil {
			return Fragment{}, fmt.Errorf("%w: fallback route %q not configured", ErrNoRouteSelected, o.fallbackRoute)
		}
		xlog.Debug("Falling back", "route", route.Name)
	}

	target := route.LLM
	if target == nil {
		target = classifier
	}

	dispatched := f
	if route.System != "" {
		dispatched = dispatched.AddStartMessage("system", route.System)
	}

	result, err := target.Ask(o.ctx, dispatched)
	if err != nil {
		return Fragment{}, fmt.Errorf("%w: route %q: %w", ErrReasoningUnavailable, route.Name, err)
	}

	o.statusCallback(result.LastMessage().Content)
	result.Status.FinalAnswer = result.LastMessage().Content
	return result, nil
}

func findRoute(routes []Route, name string) *Route {
	for i := range routes {
		if routes[i].Name == name {
			return &routes[i]
		}
	}
	return nil
}
