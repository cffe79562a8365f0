// Package toast sends feedback notifications to the browser.
//
// A websocket session has no HTTP response to carry a flash cookie, so
// toasts travel as their own op on the session's connection. The client shows
// them however it likes:
//
//	{"op":"toast","level":"success","value":"Added to cart"}
//
// Pages call the helpers with the session they were built for:
//
//	func (p *cartPage) remove(ctx context.Context, id string) error {
//	    if _, err := p.env.Backend.RemoveFromCart(ctx, p.sess.CartID(), id); err != nil {
//	        return err
//	    }
//	    toast.Success(p.sess, "Removed from cart")
//	    return nil
//	}
package toast
