package asset

// Placeholder is rendered in place of an icon whose source could not be
// fetched or parsed: a rounded square with a cross.
const Placeholder = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24">
  <rect x="2" y="2" width="20" height="20" rx="2" ry="2" fill="none" stroke="currentColor" stroke-width="2"/>
  <path d="M7 7l10 10M17 7L7 17" stroke="currentColor" stroke-width="2" fill="none" stroke-linecap="round"/>
</svg>`
