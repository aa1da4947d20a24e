package component

import (
	"reflect"
	"testing"
)

// listeningBuffer records Listen registrations.
type listeningBuffer struct {
	*Buffer
	bound []string
}

func (b *listeningBuffer) Listen(eventType, selector string, fn func(Event)) {
	b.bound = append(b.bound, eventType+" "+selector)
}

func TestEventsHookRunsBeforeRender(t *testing.T) {
	var order []string

	New(NewBuffer(), nil,
		WithSetup(func(*Component) { order = append(order, "setup") }),
		WithEvents(func(*Component) { order = append(order, "events") }),
		WithTemplate(func(*Component) string {
			order = append(order, "template")
			return ""
		}),
	)

	want := []string{"setup", "events", "template"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestDispatchMatchesTypeAndSelector(t *testing.T) {
	var got []string
	c := New(NewBuffer(), nil, WithEvents(func(c *Component) {
		c.AddEvent("submit", "#login-form", func(ev Event) {
			got = append(got, "first:"+ev.Value("user"))
		})
		c.AddEvent("submit", "#login-form", func(Event) {
			got = append(got, "second")
		})
		c.AddEvent("click", "#login-form", func(Event) {
			got = append(got, "click")
		})
	}))

	ok := c.Dispatch(Event{
		Type:     "submit",
		Selector: "#login-form",
		Values:   map[string]string{"user": "ada"},
	})
	if !ok {
		t.Error("Dispatch() = false, want true")
	}
	want := []string{"first:ada", "second"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("listeners ran = %v, want %v", got, want)
	}

	if c.Dispatch(Event{Type: "submit", Selector: ".other"}) {
		t.Error("Dispatch() ran a listener for an unregistered selector")
	}
}

func TestAddEventRegistersWithEventTarget(t *testing.T) {
	target := &listeningBuffer{Buffer: NewBuffer()}
	c := New(target, nil)

	c.AddEvent("click", "button.logout", func(Event) {})
	c.AddEvent("click", "a", nil)

	if want := []string{"click button.logout"}; !reflect.DeepEqual(target.bound, want) {
		t.Errorf("bound = %v, want %v", target.bound, want)
	}
}

func TestEventValueMissing(t *testing.T) {
	if got := (Event{}).Value("user"); got != "" {
		t.Errorf("Value() = %q, want empty", got)
	}
}
