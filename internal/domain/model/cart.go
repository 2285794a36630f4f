package model

// CartLine はカートの1行（本1冊につき1行）
type CartLine struct {
	BookID   int64 `json:"book_id"`
	Quantity int64 `json:"quantity"`
}

// Cart はセッションに紐づくカート。追加順を保つ
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Quantity は bookID の現在数量。無ければ0
func (c Cart) Quantity(bookID int64) int64 {
	for _, l := range c.Lines {
		if l.BookID == bookID {
			return l.Quantity
		}
	}
	return 0
}

// Set は数量を上書きする。0以下なら行を消す
func (c Cart) Set(bookID, quantity int64) Cart {
	if quantity <= 0 {
		return c.Remove(bookID)
	}
	lines := make([]CartLine, 0, len(c.Lines)+1)
	found := false
	for _, l := range c.Lines {
		if l.BookID == bookID {
			l.Quantity = quantity
			found = true
		}
		lines = append(lines, l)
	}
	if !found {
		lines = append(lines, CartLine{BookID: bookID, Quantity: quantity})
	}
	return Cart{Lines: lines}
}

// Remove は行を消す。無い本なら何もしない
func (c Cart) Remove(bookID int64) Cart {
	lines := make([]CartLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		if l.BookID != bookID {
			lines = append(lines, l)
		}
	}
	return Cart{Lines: lines}
}

func (c Cart) TotalItems() int64 {
	var n int64
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}
