package browser

import "fmt"

// hoverScript fires mouseover and mousemove at the centre of a marker and
// resolves to the marker's raw value
func hoverScript(index int) string {
	return fmt.Sprintf(`
		(async function() {
			const dot = document.querySelectorAll("circle.dot")[%d];
			const rect = dot.getBoundingClientRect();
			const init = {
				view: window,
				bubbles: true,
				cancelable: true,
				clientX: rect.left + rect.width / 2,
				clientY: rect.top + rect.height / 2
			};
			for (const type of ["mouseover", "mousemove"]) {
				dot.dispatchEvent(new MouseEvent(type, init));
			}
			await new Promise(resolve => requestAnimationFrame(resolve));
			return dot.getAttribute("data-value");
		})()
	`, index)
}

func leaveScript(index int) string {
	return fmt.Sprintf(`
		(async function() {
			const dot = document.querySelectorAll("circle.dot")[%d];
			dot.dispatchEvent(new MouseEvent("mouseleave", {view: window, bubbles: false}));
			await new Promise(resolve => requestAnimationFrame(resolve));
			return true;
		})()
	`, index)
}

const readTooltipScript = `
	(function() {
		const tip = document.querySelector(".tooltip");
		const style = window.getComputedStyle(tip);
		return {
			opacity: parseFloat(style.opacity),
			text: tip.textContent,
			left: style.left,
			top: style.top,
			fontSize: style.fontSize
		};
	})()
`
