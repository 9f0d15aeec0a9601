package contract

import "github.com/alexanderramin/riskboard/internal/app"

type BoardRequest = app.BoardRequest

func NewBoardRequest() BoardRequest {
	return app.NewBoardRequest()
}

type BoardResponse = app.BoardResponse

type TaskView = app.TaskView

func NewTaskView(e Entry) TaskView {
	return app.NewTaskView(e)
}

func TaskViews(entries []Entry) []TaskView {
	return app.TaskViews(entries)
}

const EmptyTableWarning = app.EmptyTableWarning
