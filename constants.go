package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeHelp
	ModeConfirm
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmNewBoard
)

const (
	statusRows = 1
	panStep    = 4
	wheelStep  = 2
)
