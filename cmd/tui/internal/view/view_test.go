package view

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/stash/internal/advice"
	"github.com/MrJamesThe3rd/stash/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/stash/internal/budget/store"
	"github.com/MrJamesThe3rd/stash/internal/identity"
	"github.com/MrJamesThe3rd/stash/internal/kv"
)

func newController(t *testing.T) *budget.Controller {
	t.Helper()

	svc := budget.NewService(budgetStore.New(kv.NewMemory()))

	ctrl, err := svc.Open(context.Background(), &identity.Session{Email: "ama@x.com", Name: "Ama"})
	require.NoError(t, err)

	return ctrl
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestGoalsModel_QuickContribution(t *testing.T) {
	ctrl := newController(t)

	_, err := ctrl.CreateGoal(context.Background(), budget.GoalParams{
		Title:          "Laptop",
		TargetAmount:   5000,
		DurationMonths: 5,
	})
	require.NoError(t, err)

	m := NewGoalsModel(ctrl)

	_, cmd := m.Update(key("P"))
	require.NotNil(t, cmd)

	msg, ok := cmd().(BudgetChangedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, "Added GH₵1,000 to Laptop.", msg.Notice)
	assert.Equal(t, 1000.0, ctrl.State().Goals[0].CurrentAmount)
}

func TestGoalsModel_EditOpensModalInEditingState(t *testing.T) {
	ctrl := newController(t)

	goal, err := ctrl.CreateGoal(context.Background(), budget.GoalParams{Title: "Trip", TargetAmount: 800, DurationMonths: 2})
	require.NoError(t, err)

	m := NewGoalsModel(ctrl)

	_, cmd := m.Update(key("e"))
	require.NotNil(t, cmd)

	open, ok := cmd().(OpenModalMsg)
	require.True(t, ok)
	require.NotNil(t, open.Modal)

	id, editing := m.editor.Editing()
	assert.True(t, editing)
	assert.Equal(t, goal.ID, id)

	done, _ := open.Modal.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, done)

	_, editing = m.editor.Editing()
	assert.False(t, editing)
}

func TestDashboardModel_DeleteSelectedExpense(t *testing.T) {
	ctrl := newController(t)

	_, err := ctrl.AddExpense(context.Background(), 12, budget.CategoryFood, "Waakye")
	require.NoError(t, err)

	m := NewDashboardModel(ctrl)

	_, cmd := m.Update(key("d"))
	require.NotNil(t, cmd)

	msg, ok := cmd().(BudgetChangedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, "Expense deleted.", msg.Notice)
	assert.Empty(t, ctrl.State().Expenses)
}

func TestDashboardModel_DeleteWithoutExpenses(t *testing.T) {
	m := NewDashboardModel(newController(t))

	_, cmd := m.Update(key("d"))
	assert.Nil(t, cmd)
}

func TestNotificationsModel_InitMarksRead(t *testing.T) {
	ctrl := newController(t)

	_, err := ctrl.AddExpense(context.Background(), 12, budget.CategoryFood, "Waakye")
	require.NoError(t, err)
	require.Equal(t, 1, ctrl.Summary().UnreadCount)

	cmd := NewNotificationsModel(ctrl).Init()
	require.NotNil(t, cmd)

	msg, ok := cmd().(BudgetChangedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Zero(t, ctrl.Summary().UnreadCount)

	assert.Nil(t, NewNotificationsModel(ctrl).Init())
}

func TestRenderTabBar_UnreadBadge(t *testing.T) {
	assert.Contains(t, RenderTabBar(TabDashboard, 3), "•3")
	assert.NotContains(t, RenderTabBar(TabDashboard, 0), "•")
}

func TestCoachModel_IgnoresRepliesItDidNotAskFor(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	ctrl := newController(t)
	coach := advice.NewCoach(advice.NewMockAdvisor(mockCtrl))

	var m tea.Model = NewCoachModel(coach, ctrl)

	m, _ = m.Update(adviceMsg{userKey: "kofi@x.com"})
	assert.Contains(t, m.View(), "Press enter")

	m, _ = m.Update(adviceMsg{userKey: "ama@x.com"})
	assert.Contains(t, m.View(), "Press enter")

	m, cmd := m.Update(key("r"))
	require.NotNil(t, cmd)

	m, _ = m.Update(adviceMsg{userKey: "kofi@x.com", advice: &advice.Advice{Headline: "Not yours"}})
	assert.True(t, m.(CoachModel).thinking)

	m, _ = m.Update(adviceMsg{userKey: "ama@x.com", advice: &advice.Advice{Status: advice.StatusGood, Headline: "On track"}})
	assert.False(t, m.(CoachModel).thinking)
	assert.Contains(t, m.View(), "On track")
}
