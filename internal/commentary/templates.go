package commentary

// Templates take the actor label and the position name, in that order.
var (
	threatTemplates = []string{
		"%s takes the %s and threatens a win!",
		"%s plays the %s - one more and it's over. That threatens a win.",
		"Watch out! %s moves to the %s and threatens a win.",
	}

	blockTemplates = []string{
		"%s blocks the win with the %s!",
		"Denied! %s blocks the line at the %s.",
		"%s spots the danger and blocks at the %s.",
	}

	centerTemplates = []string{
		"%s claims the %s - the strongest square on the board.",
		"%s grabs the %s and controls the middle.",
		"Straight to the %[2]s for %[1]s.",
	}

	cornerTemplates = []string{
		"%s takes the %s corner.",
		"A classic corner play: %s picks the %s.",
		"%s settles into the %s.",
	}

	genericTemplates = []string{
		"%s plays the %s.",
		"%s goes for the %s.",
		"%s marks the %s.",
		"Interesting choice: %s takes the %s.",
		"%s quietly picks the %s.",
		"The %[2]s goes to %[1]s.",
	}

	positionNames = [9]string{
		"top-left", "top-center", "top-right",
		"middle-left", "center", "middle-right",
		"bottom-left", "bottom-center", "bottom-right",
	}
)

const (
	victoryPlayerTemplate   = "Player %s has won! What a game!"
	victoryComputerTemplate = "The Computer wins this time. Better luck next round!"
	drawMessage             = "Game ended in a draw! Nobody gives an inch."
)
