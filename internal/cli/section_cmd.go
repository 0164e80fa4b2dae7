package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sectionview/internal/cli/formatter"
	"sectionview/internal/editor"
	"sectionview/internal/orientation"
)

func newShowCmd(app *App) *cobra.Command {
	var order []string
	var leftDeparture float64

	cmd := &cobra.Command{
		Use:   "show <section-id>",
		Short: "Show a section's left/right nodes, times and locks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := baseRequest(args[0], order)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("left-departure") {
				req.LeftDeparture = &leftDeparture
			}
			p, err := app.present(cmd.Context(), req)
			if err != nil {
				return err
			}
			return app.emit(cmd, p, func() string { return formatter.FormatPresentation(p) })
		},
	}
	cmd.Flags().StringSliceVar(&order, "order", nil, "Node IDs in on-screen order, e.g. 4,3,2,1")
	cmd.Flags().Float64Var(&leftDeparture, "left-departure", 0, "Preview the section with this left departure minute")
	return cmd
}

type locksOutput struct {
	SectionID  int                       `json:"sectionId"`
	LeftNodeID int                       `json:"leftNodeId"`
	Locks      orientation.LockStructure `json:"locks"`
	SourceLock bool                      `json:"sourceLock"`
	TargetLock bool                      `json:"targetLock"`
}

func newLocksCmd(app *App) *cobra.Command {
	var order []string

	cmd := &cobra.Command{
		Use:   "locks <section-id>",
		Short: "Show a section's locks by side and by source/target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := baseRequest(args[0], order)
			if err != nil {
				return err
			}
			p, err := app.present(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := locksOutput{
				SectionID:  p.SectionID,
				LeftNodeID: p.LeftNodeID,
				Locks:      p.Locks,
				SourceLock: p.SourceLock,
				TargetLock: p.TargetLock,
			}
			return app.emit(cmd, out, func() string { return formatter.FormatLocks(p) })
		},
	}
	cmd.Flags().StringSliceVar(&order, "order", nil, "Node IDs in on-screen order")
	return cmd
}

type selectOutput struct {
	SectionID int                  `json:"sectionId"`
	Text      string               `json:"text"`
	Element   *orientation.Element `json:"element"`
}

func newSelectCmd(app *App) *cobra.Command {
	var order []string
	var direction string

	cmd := &cobra.Command{
		Use:   "select <section-id> <text>",
		Short: "Map a source/target text field to its left/right element",
		Long: "Map a source/target text field to its left/right element.\n\n" +
			"Texts: source-departure, source-arrival, target-departure, target-arrival, travel-time, name.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := baseRequest(args[0], order)
			if err != nil {
				return err
			}
			req.Selected = args[1]
			req.Direction = direction
			p, err := app.present(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := selectOutput{SectionID: p.SectionID, Text: args[1], Element: p.Selected}
			return app.emit(cmd, out, func() string { return formatter.FormatSelection(args[1], p) })
		},
	}
	cmd.Flags().StringSliceVar(&order, "order", nil, "Node IDs in on-screen order")
	cmd.Flags().StringVar(&direction, "direction", "", "Trainrun direction for name fields: forward or backward")
	return cmd
}

type distributeOutput struct {
	SectionID int                         `json:"sectionId"`
	Total     float64                     `json:"total"`
	Legs      []orientation.LegTravelTime `json:"legs"`
}

func newDistributeCmd(app *App) *cobra.Command {
	var order []string

	cmd := &cobra.Command{
		Use:   "distribute <section-id> <total-minutes>",
		Short: "Spread a travel time over the section's non-stop chain",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := baseRequest(args[0], order)
			if err != nil {
				return err
			}
			total, err := strconv.ParseFloat(args[1], 64)
			if err != nil || total < 0 {
				return fmt.Errorf("invalid total travel time %q", args[1])
			}
			req.TotalTravelTime = &total
			p, err := app.present(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := distributeOutput{SectionID: p.SectionID, Total: total, Legs: p.Legs}
			return app.emit(cmd, out, func() string { return formatter.FormatLegs(p.Legs) })
		},
	}
	cmd.Flags().StringSliceVar(&order, "order", nil, "Node IDs in on-screen order")
	return cmd
}

func baseRequest(sectionArg string, order []string) (editor.Request, error) {
	id, err := parseSectionID(sectionArg)
	if err != nil {
		return editor.Request{}, err
	}
	ids, err := parseOrder(order)
	if err != nil {
		return editor.Request{}, err
	}
	return editor.Request{SectionID: id, OrderedNodeIDs: ids}, nil
}
