package senders

import (
	"fmt"

	"github.com/fiffu/pricewatch/lib/models"
)

type alertFormat struct {
	models.AlertEvent
}

func (f alertFormat) Subject() string {
	return fmt.Sprintf("Pricewatch: %s dropped below %d", f.Item, f.Threshold)
}

func (f alertFormat) Text() string {
	return fmt.Sprintf("⚡ %s found for %d (below %d)!", f.Item, f.MinPrice, f.Threshold)
}

func (f alertFormat) HTML() string {
	return fmt.Sprintf(
		`
			<h3>%s is selling below your threshold</h3>
			<br>
			Lowest listing: <b>%d</b> (your limit: %d)
		`,
		f.Item, f.MinPrice, f.Threshold,
	)
}
