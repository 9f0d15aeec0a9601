package contract

import "github.com/alexanderramin/riskboard/internal/board"

type Entry = board.Entry

type Filter = board.Filter

type Stats = board.Stats

type SortMode = board.SortMode

const (
	SortRisk SortMode = board.SortRisk
	SortID   SortMode = board.SortID
)
