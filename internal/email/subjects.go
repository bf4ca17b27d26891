package email

const (
	subjectLeadConfirmation = "Vi har mottatt forespørselen din"
	subjectLeadAssignedFmt  = "Nytt oppdrag: %s"
	subjectFollowUpFmt      = "Påminnelse: følg opp %s"
)
