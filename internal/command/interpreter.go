package command

import (
	"regexp"
	"strings"

	"github.com/skymark/flightdeck/internal/flight"
	"github.com/skymark/flightdeck/internal/store"
	"github.com/skymark/flightdeck/pkg/logger"
)

// Action types produced by the interpreter
const (
	ActionTrackFlight    = "track_flight"
	ActionFilterAirline  = "filter_airline"
	ActionFilterLocation = "filter_location"
	ActionClearFilters   = "clear_filters"
	ActionNone           = ""
)

const helpMessage = `Command not recognized. Try: "Track flight EK215", "Show flights above Dubai", "Find Emirates flights", or "Clear filters"`

// Result is the interpreter's reply for one command.
type Result struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

var (
	trackFlightRe    = regexp.MustCompile(`(?i)track\s+(?:flight\s+)?([A-Z0-9]+)`)
	aboveLocationRe  = regexp.MustCompile(`(?i)above\s+([A-Za-z\s]+)`)
	findAirlineRe    = regexp.MustCompile(`(?i)airline\s+([A-Za-z\s]+)`)
	findXFlightsRe   = regexp.MustCompile(`(?i)find\s+([A-Za-z\s]+?)\s+flights`)
)

// Interpreter translates free-text commands into filter mutations on
// the store. It is plain pattern matching over a small vocabulary; the
// store's operations are its only side effects.
type Interpreter struct {
	store  *store.Store
	logger *logger.Logger
}

// New creates a new command interpreter bound to the given store.
func New(flightStore *store.Store, log *logger.Logger) *Interpreter {
	return &Interpreter{
		store:  flightStore,
		logger: log.Named("command"),
	}
}

// Execute parses the input and applies the matching action. Every input
// yields a result; unrecognized commands return the help message and no
// action.
func (i *Interpreter) Execute(input string) Result {
	input = strings.TrimSpace(input)
	if input == "" {
		return Result{Message: helpMessage}
	}

	lower := strings.ToLower(input)

	if strings.Contains(lower, "track") && strings.Contains(lower, "flight") {
		if m := trackFlightRe.FindStringSubmatch(input); m != nil {
			number := strings.ToUpper(m[1])
			i.setAirlineFilter(number)
			i.logger.Info("Command: track flight", logger.String("flight", number))
			return Result{
				Message: "Tracking flight " + number + "...",
				Action:  ActionTrackFlight,
			}
		}
	}

	if strings.Contains(lower, "show") && strings.Contains(lower, "above") {
		if m := aboveLocationRe.FindStringSubmatch(input); m != nil {
			place := strings.TrimSpace(m[1])
			// Location filtering needs viewport geocoding the core does
			// not have; acknowledged without a filter change.
			return Result{
				Message: "Showing flights above " + place + "...",
				Action:  ActionFilterLocation,
			}
		}
	}

	if strings.Contains(lower, "find") {
		if m := findAirlineRe.FindStringSubmatch(input); m != nil {
			airline := strings.TrimSpace(m[1])
			i.setAirlineFilter(airline)
			i.logger.Info("Command: filter airline", logger.String("airline", airline))
			return Result{
				Message: "Finding flights for " + airline + "...",
				Action:  ActionFilterAirline,
			}
		}
		if m := findXFlightsRe.FindStringSubmatch(input); m != nil {
			airline := strings.TrimSpace(m[1])
			i.setAirlineFilter(airline)
			i.logger.Info("Command: filter airline", logger.String("airline", airline))
			return Result{
				Message: "Finding flights for " + airline + "...",
				Action:  ActionFilterAirline,
			}
		}
	}

	if strings.Contains(lower, "clear") || strings.Contains(lower, "reset") {
		empty := ""
		i.store.SetFilters(flight.FilterUpdate{
			Airline:  &empty,
			Status:   &empty,
			Altitude: &empty,
		})
		i.logger.Info("Command: clear filters")
		return Result{
			Message: "Clearing all filters...",
			Action:  ActionClearFilters,
		}
	}

	return Result{Message: helpMessage}
}

func (i *Interpreter) setAirlineFilter(value string) {
	i.store.SetFilters(flight.FilterUpdate{Airline: &value})
}
