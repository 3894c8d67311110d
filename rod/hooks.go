package rod

// hooksJS installs the extraction hooks. Clicks on list controls go to the
// inner link or span when present, which is what the application binds its
// handlers to.
const hooksJS = `() => {
	window.__callscribe = {
		has: (sel) => document.querySelector(sel) !== null,
		click: (sel) => {
			const el = document.querySelector(sel);
			if (!el) return false;
			el.click();
			return true;
		},
		clickText: (sel, text) => {
			for (const el of document.querySelectorAll(sel)) {
				if (el.textContent.trim() === text) {
					const target = el.querySelector('a') || el.querySelector('span') || el;
					target.click();
					return true;
				}
			}
			return false;
		},
	};
	return true;
}`

const probeJS = `() => typeof window.__callscribe === 'object' && window.__callscribe !== null`

const clickJS = `(sel) => window.__callscribe.click(sel)`

const clickTextJS = `(sel, text) => window.__callscribe.clickText(sel, text)`
