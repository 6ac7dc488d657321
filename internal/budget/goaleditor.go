package budget

import "context"

// GoalEditor tracks whether the goal form creates a new goal or edits an existing one.
// The zero value is in the creating state.
type GoalEditor struct {
	editingID string
}

// Begin switches to editing goal id. An empty id means creating.
func (e *GoalEditor) Begin(id string) {
	e.editingID = id
}

func (e *GoalEditor) Cancel() {
	e.editingID = ""
}

func (e *GoalEditor) Editing() (string, bool) {
	return e.editingID, e.editingID != ""
}

// Submit edits the goal being edited and returns to creating, or creates a goal and stays creating.
// A failed submission keeps the current state so the form can be corrected.
func (e *GoalEditor) Submit(ctx context.Context, ctrl *Controller, params GoalParams) (*SavingGoal, error) {
	id, editing := e.Editing()
	if !editing {
		return ctrl.CreateGoal(ctx, params)
	}

	goal, err := ctrl.EditGoal(ctx, id, params)
	if err != nil {
		return nil, err
	}

	e.Cancel()

	return goal, nil
}
